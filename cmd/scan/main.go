// Command scan looks up a barcode and prints its report and safer alternatives as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/foodscan/backend/config"
	"github.com/foodscan/backend/internal/domain"
	"github.com/foodscan/backend/internal/infrastructure/cache"
	"github.com/foodscan/backend/internal/infrastructure/off"
	"github.com/foodscan/backend/internal/logger"
	"github.com/foodscan/backend/internal/usecase"
)

type scanOutput struct {
	Report       *domain.ProductReport `json:"report"`
	Alternatives []domain.Alternative  `json:"alternatives"`
}

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "overall lookup timeout")
	skipAlternatives := flag.Bool("no-alternatives", false, "skip the alternative search")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <barcode>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()

	catalog := off.NewClient(off.ClientConfig{
		BaseURL:              cfg.OFF.BaseURL,
		UserAgent:            cfg.OFF.UserAgent,
		Timeout:              cfg.OFF.Timeout,
		ProductRatePerMinute: cfg.OFF.ProductRatePerMinute,
		SearchRatePerMinute:  cfg.OFF.SearchRatePerMinute,
	}, zl.Named("off"))

	svc := usecase.NewProductService(memoryCache, catalog, zl.Named("products"), usecase.ProductServiceConfig{
		SearchPageSize:    cfg.OFF.SearchPageSize,
		MaxAlternatives:   cfg.Ranking.MaxAlternatives,
		LookupConcurrency: cfg.Ranking.LookupConcurrency,
	})

	report, err := svc.GetProductReport(ctx, flag.Arg(0))
	if err != nil {
		zl.Error("lookup failed", zap.String("barcode", flag.Arg(0)), zap.Error(err))
		os.Exit(1)
	}

	out := scanOutput{Report: report, Alternatives: []domain.Alternative{}}
	if !*skipAlternatives {
		out.Alternatives, err = svc.AlternativesFor(ctx, &report.Product)
		if err != nil {
			zl.Error("ranking alternatives failed", zap.String("barcode", flag.Arg(0)), zap.Error(err))
			os.Exit(1)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		zl.Error("encode output", zap.Error(err))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/foodscan/backend/config"
	httpDelivery "github.com/foodscan/backend/internal/delivery/http"
	"github.com/foodscan/backend/internal/domain"
	"github.com/foodscan/backend/internal/infrastructure/cache"
	"github.com/foodscan/backend/internal/infrastructure/off"
	"github.com/foodscan/backend/internal/logger"
	"github.com/foodscan/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zl.Info("starting foodscan backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL))

	productCache, closeCache, err := newProductCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	catalog := off.NewClient(off.ClientConfig{
		BaseURL:              cfg.OFF.BaseURL,
		UserAgent:            cfg.OFF.UserAgent,
		Timeout:              cfg.OFF.Timeout,
		ProductRatePerMinute: cfg.OFF.ProductRatePerMinute,
		SearchRatePerMinute:  cfg.OFF.SearchRatePerMinute,
	}, zl.Named("off"))

	productService := usecase.NewProductService(
		productCache,
		catalog,
		zl.Named("products"),
		usecase.ProductServiceConfig{
			CacheTTL:          cfg.Cache.TTL,
			SearchPageSize:    cfg.OFF.SearchPageSize,
			MaxAlternatives:   cfg.Ranking.MaxAlternatives,
			LookupConcurrency: cfg.Ranking.LookupConcurrency,
		},
	)

	handler := httpDelivery.NewHandler(productService, zl.Named("http"))
	router := httpDelivery.SetupRouter(cfg, handler, zl.Named("http"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newProductCache builds the configured product cache and its close func.
func newProductCache(ctx context.Context, cfg *config.Config) (domain.ProductCache, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return rc, func() { _ = rc.Close() }, nil
	default:
		mc := cache.NewMemoryCache()
		return mc, func() { _ = mc.Close() }, nil
	}
}

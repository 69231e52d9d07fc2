package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/foodscan/backend/internal/domain"
	"github.com/foodscan/backend/internal/observability"
)

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	CacheTTL          time.Duration
	SearchPageSize    int
	MaxAlternatives   int
	LookupConcurrency int
}

// ProductService resolves scanned barcodes into reports and safer alternatives
type ProductService struct {
	cache      domain.ProductCache
	catalog    domain.CatalogClient
	aggregator *ConcernAggregator
	ranker     *AlternativeRanker
	logger     *zap.Logger

	cacheTTL        time.Duration
	searchPageSize  int
	maxAlternatives int
}

// NewProductService creates a new product service with dependencies
func NewProductService(
	cache domain.ProductCache,
	catalog domain.CatalogClient,
	logger *zap.Logger,
	config ProductServiceConfig,
) *ProductService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	pageSize := config.SearchPageSize
	if pageSize < 10 {
		pageSize = 10
	}

	maxAlternatives := config.MaxAlternatives
	if maxAlternatives <= 0 {
		maxAlternatives = DefaultMaxAlternatives
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	aggregator := NewConcernAggregator(config.LookupConcurrency)

	return &ProductService{
		cache:           cache,
		catalog:         catalog,
		aggregator:      aggregator,
		ranker:          NewAlternativeRanker(aggregator),
		logger:          logger,
		cacheTTL:        cacheTTL,
		searchPageSize:  pageSize,
		maxAlternatives: maxAlternatives,
	}
}

// validateBarcode accepts non-empty, all-digit barcodes.
func validateBarcode(barcode string) error {
	if barcode == "" {
		return fmt.Errorf("%w: barcode is required", domain.ErrInvalidRequest)
	}
	for _, r := range barcode {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: barcode must be numeric", domain.ErrInvalidRequest)
		}
	}
	return nil
}

// GetProduct returns the catalog product for barcode.
// Flow: check cache -> fetch from catalog -> cache -> return
func (s *ProductService) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if err := validateBarcode(barcode); err != nil {
		return nil, err
	}

	cacheKey := productCacheKey(barcode)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("product cache read failed", zap.String("barcode", barcode), zap.Error(err))
		}
	}

	product, err := s.catalog.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, product, s.cacheTTL); err != nil {
			// Caching is best-effort
			s.logger.Warn("product cache write failed", zap.String("barcode", barcode), zap.Error(err))
		}
	}

	return product, nil
}

// GetProductReport builds the product detail view for barcode.
func (s *ProductService) GetProductReport(ctx context.Context, barcode string) (*domain.ProductReport, error) {
	product, err := s.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	cache := NewConcernCache()
	report := &domain.ProductReport{
		Product:            *product,
		DisplayName:        product.DisplayName(),
		Nutrients:          ClassifyProduct(product),
		FlaggedIngredients: s.aggregator.FlaggedIngredients(product.IngredientsText, cache),
	}

	// The flagged pass filled cache, so the count needs no further lookups.
	count, err := s.ranker.Baseline(ctx, product, cache)
	switch {
	case err == nil:
		report.WarningsCount = &count
	case !errors.Is(err, domain.ErrNoIngredientData):
		return nil, err
	}

	return report, nil
}

// FindAlternatives returns safer products from a name search for the product
// with barcode. Search failures degrade to an empty list.
func (s *ProductService) FindAlternatives(ctx context.Context, barcode string) ([]domain.Alternative, error) {
	product, err := s.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	return s.AlternativesFor(ctx, product)
}

// AlternativesFor ranks search candidates against an already-fetched product.
// Only a cancelled or expired ctx produces an error.
func (s *ProductService) AlternativesFor(ctx context.Context, product *domain.Product) ([]domain.Alternative, error) {
	alternatives := []domain.Alternative{}

	term := product.SearchTerm()
	if term == "" {
		return alternatives, nil
	}

	candidates, err := s.catalog.SearchProducts(ctx, term, s.searchPageSize)
	if err != nil {
		s.logger.Warn("alternative search failed",
			zap.String("code", product.Code),
			zap.String("term", term),
			zap.Error(err))
		observability.AlternativeSearchFailures.Inc()
		return alternatives, nil
	}

	if !product.HasIngredients() {
		s.logger.Debug("no ingredient data, baseline unbounded", zap.String("code", product.Code))
	}

	alternatives, err = s.ranker.Rank(ctx, product, candidates, s.maxAlternatives)
	if err != nil {
		return nil, err
	}
	for i := range alternatives {
		alternatives[i].Nutrients = ClassifyProduct(&alternatives[i].Product)
	}
	observability.AlternativesReturned.Observe(float64(len(alternatives)))

	s.logger.Debug("alternatives ranked",
		zap.String("code", product.Code),
		zap.Int("candidates", len(candidates)),
		zap.Int("kept", len(alternatives)))

	return alternatives, nil
}

// CheckIngredients reports the flagged ingredients and warning count for free text.
func (s *ProductService) CheckIngredients(ctx context.Context, ingredientsText string) (*domain.IngredientCheck, error) {
	if strings.TrimSpace(ingredientsText) == "" {
		return nil, fmt.Errorf("%w: ingredientsText is required", domain.ErrInvalidRequest)
	}

	cache := NewConcernCache()
	flagged := s.aggregator.FlaggedIngredients(ingredientsText, cache)
	count, err := s.aggregator.CountWarnings(ctx, ingredientsText, cache)
	if err != nil {
		return nil, err
	}

	return &domain.IngredientCheck{
		Ingredients:   flagged,
		WarningsCount: count,
	}, nil
}

// productCacheKey builds the cache key for a barcode.
// Format: "product:{barcode}"
func productCacheKey(barcode string) string {
	return "product:" + barcode
}

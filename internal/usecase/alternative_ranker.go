package usecase

import (
	"context"
	"errors"
	"math"

	"github.com/foodscan/backend/internal/domain"
)

// DefaultMaxAlternatives caps the number of alternatives returned per product.
const DefaultMaxAlternatives = 5

// AlternativeRanker keeps candidates with strictly fewer ingredient warnings
// than the current product.
type AlternativeRanker struct {
	aggregator *ConcernAggregator
}

// NewAlternativeRanker creates a ranker that counts warnings with aggregator.
func NewAlternativeRanker(aggregator *ConcernAggregator) *AlternativeRanker {
	return &AlternativeRanker{aggregator: aggregator}
}

// Baseline returns the current product's warning count. It returns
// domain.ErrNoIngredientData when the product has no ingredient text, and the
// context error when counting was cut short.
func (r *AlternativeRanker) Baseline(ctx context.Context, current *domain.Product, cache *ConcernCache) (int, error) {
	if !current.HasIngredients() {
		return 0, domain.ErrNoIngredientData
	}
	return r.aggregator.CountWarnings(ctx, current.IngredientsText, cache)
}

// Rank evaluates candidates sequentially, in the order given, and returns at
// most limit alternatives in that same order. Candidates without ingredient
// text or name, and those sharing the current product's code, are skipped.
// When the current product has no ingredient text every evaluated candidate
// qualifies. A limit <= 0 means DefaultMaxAlternatives.
//
// If ctx is cancelled mid-ranking no alternatives are returned, only the
// context error.
func (r *AlternativeRanker) Rank(
	ctx context.Context,
	current *domain.Product,
	candidates []domain.Product,
	limit int,
) ([]domain.Alternative, error) {
	if limit <= 0 {
		limit = DefaultMaxAlternatives
	}

	cache := NewConcernCache()
	baseline, err := r.Baseline(ctx, current, cache)
	switch {
	case errors.Is(err, domain.ErrNoIngredientData):
		baseline = math.MaxInt
	case err != nil:
		return nil, err
	}

	alternatives := []domain.Alternative{}
	for _, candidate := range candidates {
		if !candidate.HasIngredients() || candidate.ProductName == "" || candidate.Code == current.Code {
			continue
		}

		count, err := r.aggregator.CountWarnings(ctx, candidate.IngredientsText, cache)
		if err != nil {
			return nil, err
		}
		if count < baseline {
			alternatives = append(alternatives, domain.Alternative{
				Product:       candidate,
				WarningsCount: count,
			})
		}

		if len(alternatives) >= limit {
			break
		}
	}

	return alternatives, nil
}

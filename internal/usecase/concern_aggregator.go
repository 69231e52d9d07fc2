package usecase

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/foodscan/backend/internal/domain"
	"github.com/foodscan/backend/internal/observability"
)

const defaultLookupConcurrency = 8

// LookupFunc resolves an ingredient name to its concern text.
type LookupFunc func(ingredient string) string

// ConcernCache memoizes ingredient concerns for one ranking session, keyed by
// the normalized ingredient name. It is owned by a single caller and must not
// be shared between concurrent sessions.
type ConcernCache struct {
	entries map[string]string
}

// NewConcernCache creates an empty session cache.
func NewConcernCache() *ConcernCache {
	return &ConcernCache{entries: make(map[string]string)}
}

// Get returns the cached concern for a normalized ingredient name.
func (c *ConcernCache) Get(ingredient string) (string, bool) {
	concern, ok := c.entries[ingredient]
	return concern, ok
}

// Set stores the concern for a normalized ingredient name.
func (c *ConcernCache) Set(ingredient, concern string) {
	c.entries[ingredient] = concern
}

// Len returns the number of cached ingredients.
func (c *ConcernCache) Len() int {
	return len(c.entries)
}

// ConcernAggregator counts ingredient warnings over comma-separated ingredient text.
type ConcernAggregator struct {
	lookup      LookupFunc
	concurrency int
}

// NewConcernAggregator creates an aggregator backed by the static risk table.
// concurrency bounds the lookups in flight for one ingredient list.
func NewConcernAggregator(concurrency int) *ConcernAggregator {
	return NewConcernAggregatorWithLookup(LookupConcern, concurrency)
}

// NewConcernAggregatorWithLookup creates an aggregator with a custom lookup.
func NewConcernAggregatorWithLookup(lookup LookupFunc, concurrency int) *ConcernAggregator {
	if concurrency <= 0 {
		concurrency = defaultLookupConcurrency
	}
	return &ConcernAggregator{
		lookup:      lookup,
		concurrency: concurrency,
	}
}

// splitIngredients splits ingredient text on commas and trims each token.
func splitIngredients(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func isWater(ingredient string) bool {
	return strings.EqualFold(ingredient, "water")
}

// CountWarnings returns how many ingredients in text carry a real concern.
// Water is skipped without a lookup. Cache misses are resolved concurrently and
// written back to cache once all lookups finish, so the cache is only touched
// from the calling goroutine. If ctx is cancelled before every ingredient is
// resolved, the partial count is discarded and the context error is returned.
func (a *ConcernAggregator) CountWarnings(ctx context.Context, text string, cache *ConcernCache) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if cache == nil {
		cache = NewConcernCache()
	}

	var (
		total   int
		pending []string
	)
	for _, ingredient := range splitIngredients(text) {
		if isWater(ingredient) {
			continue
		}
		key := normalizeIngredient(ingredient)
		if concern, ok := cache.Get(key); ok {
			observability.ConcernCacheLookups.WithLabelValues("hit").Inc()
			if concern != domain.NoConcerns {
				total++
			}
			continue
		}
		observability.ConcernCacheLookups.WithLabelValues("miss").Inc()
		pending = append(pending, key)
	}

	if len(pending) == 0 {
		return total, nil
	}

	resolved := make([]string, len(pending))
	done := make([]bool, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, key := range pending {
		i, key := i, key
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resolved[i] = a.lookup(key)
			done[i] = true
			return nil
		})
	}
	waitErr := g.Wait()

	// Finished lookups are still valid for later texts in the session.
	for i, key := range pending {
		if !done[i] {
			continue
		}
		concern := resolved[i]
		if concern == "" {
			concern = domain.NoConcerns
		}
		cache.Set(key, concern)
		if concern != domain.NoConcerns {
			total++
		}
	}

	if waitErr != nil {
		return 0, waitErr
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return total, nil
}

// FlaggedIngredients lists, in input order, the ingredients that carry a real
// concern. Water is never flagged. Lookups go through cache when it is non-nil.
func (a *ConcernAggregator) FlaggedIngredients(text string, cache *ConcernCache) []domain.IngredientConcern {
	flagged := []domain.IngredientConcern{}
	if text == "" {
		return flagged
	}
	for _, ingredient := range splitIngredients(text) {
		if isWater(ingredient) {
			continue
		}
		concern := domain.IngredientConcern{Ingredient: ingredient, Concerns: a.resolve(ingredient, cache)}
		if concern.Flagged() {
			flagged = append(flagged, concern)
		}
	}
	return flagged
}

// resolve looks up one ingredient, consulting and filling cache.
func (a *ConcernAggregator) resolve(ingredient string, cache *ConcernCache) string {
	key := normalizeIngredient(ingredient)
	if cache != nil {
		if concern, ok := cache.Get(key); ok {
			observability.ConcernCacheLookups.WithLabelValues("hit").Inc()
			return concern
		}
		observability.ConcernCacheLookups.WithLabelValues("miss").Inc()
	}
	concern := a.lookup(key)
	if concern == "" {
		concern = domain.NoConcerns
	}
	if cache != nil {
		cache.Set(key, concern)
	}
	return concern
}

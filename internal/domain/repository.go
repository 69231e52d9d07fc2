package domain

import (
	"context"
	"time"
)

// ProductCache stores catalog products keyed by barcode.
type ProductCache interface {
	Get(ctx context.Context, key string) (*Product, error)
	Set(ctx context.Context, key string, product *Product, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CatalogClient is the narrow interface to the remote food-facts catalog.
type CatalogClient interface {
	GetProduct(ctx context.Context, barcode string) (*Product, error)
	SearchProducts(ctx context.Context, terms string, pageSize int) ([]Product, error)
}

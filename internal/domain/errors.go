package domain

import "errors"

var (
	// ErrProductNotFound is returned when a barcode lookup has no matching product
	ErrProductNotFound = errors.New("product not found")

	// ErrCatalogUnavailable is returned on network, status or decoding failures against the catalog API
	ErrCatalogUnavailable = errors.New("catalog request failed")

	// ErrNoIngredientData marks a product that has no ingredient text to compare
	ErrNoIngredientData = errors.New("product has no ingredient data")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited is returned when the client-side limiter gives up waiting
	ErrRateLimited = errors.New("rate limit exceeded")
)

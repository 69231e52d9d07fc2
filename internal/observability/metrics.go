package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodscan_catalog_requests_total",
			Help: "Total number of requests made to the food-facts catalog",
		},
		[]string{"operation", "outcome"},
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodscan_catalog_request_duration_seconds",
			Help:    "Duration of food-facts catalog requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ConcernCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodscan_concern_cache_lookups_total",
			Help: "Ingredient concern lookups by session cache result",
		},
		[]string{"result"},
	)

	AlternativesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodscan_alternatives_returned",
			Help:    "Number of safer alternatives returned per request",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	AlternativeSearchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodscan_alternative_search_failures_total",
			Help: "Candidate searches that failed and degraded to an empty list",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodscan_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodscan_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

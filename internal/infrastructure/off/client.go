package off

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/foodscan/backend/internal/domain"
	"github.com/foodscan/backend/internal/observability"
)

const (
	defaultBaseURL   = "https://world.openfoodfacts.org"
	defaultUserAgent = "FoodScan/1.0"
	defaultTimeout   = 15 * time.Second

	// Open Food Facts asks clients to stay under 100 product reads and 10 searches per minute.
	defaultProductRatePerMinute = 100
	defaultSearchRatePerMinute  = 10

	maxErrorBody = 512
)

// ClientConfig configures the Open Food Facts client
type ClientConfig struct {
	BaseURL              string
	UserAgent            string
	Timeout              time.Duration
	ProductRatePerMinute int
	SearchRatePerMinute  int
}

// Client handles communication with the Open Food Facts API
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	productLimiter *rate.Limiter
	searchLimiter  *rate.Limiter
	logger         *zap.Logger
}

// NewClient creates a new Open Food Facts API client
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ProductRatePerMinute <= 0 {
		cfg.ProductRatePerMinute = defaultProductRatePerMinute
	}
	if cfg.SearchRatePerMinute <= 0 {
		cfg.SearchRatePerMinute = defaultSearchRatePerMinute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		userAgent:      cfg.UserAgent,
		productLimiter: perMinuteLimiter(cfg.ProductRatePerMinute),
		searchLimiter:  perMinuteLimiter(cfg.SearchRatePerMinute),
		logger:         logger,
	}
}

// perMinuteLimiter allows n requests per minute with a burst of n/10 (at least 1).
func perMinuteLimiter(n int) *rate.Limiter {
	burst := n / 10
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(n)/60.0), burst)
}

// doGet waits on limiter, executes a GET and returns the status and body.
func (c *Client) doGet(ctx context.Context, operation string, limiter *rate.Limiter, reqURL string) (int, []byte, error) {
	if err := limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		observability.CatalogRequests.WithLabelValues(operation, "rate_limited").Inc()
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	observability.CatalogRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.CatalogRequests.WithLabelValues(operation, "transport_error").Inc()
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.CatalogRequests.WithLabelValues(operation, "transport_error").Inc()
		return resp.StatusCode, nil, fmt.Errorf("%w: reading body: %v", domain.ErrCatalogUnavailable, err)
	}

	observability.CatalogRequests.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()
	return resp.StatusCode, body, nil
}

// GetProduct fetches a single product by barcode
func (c *Client) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))

	status, body, err := c.doGet(ctx, "product", c.productLimiter, reqURL)
	if err != nil {
		c.logger.Warn("product request failed", zap.String("barcode", barcode), zap.Error(err))
		return nil, err
	}

	switch {
	case status >= 500:
		c.logger.Warn("product request returned server error",
			zap.String("barcode", barcode),
			zap.Int("status", status),
			zap.String("body", truncate(body)))
		return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, status)
	case status < 200 || status > 299:
		return nil, fmt.Errorf("%w: status %d", domain.ErrProductNotFound, status)
	}

	var productResp productResponse
	if err := json.Unmarshal(body, &productResp); err != nil {
		c.logger.Warn("product response decode failed", zap.String("barcode", barcode), zap.Error(err))
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrCatalogUnavailable, err)
	}

	if productResp.Status != 1 || productResp.Product == nil {
		c.logger.Debug("product not found", zap.String("barcode", barcode))
		return nil, domain.ErrProductNotFound
	}

	product := MapProduct(productResp.Product)
	if product.Code == "" {
		product.Code = barcode
	}

	c.logger.Debug("product fetched", zap.String("barcode", barcode), zap.String("name", product.ProductName))
	return &product, nil
}

// SearchProducts runs a simple full-text search and returns up to pageSize products
func (c *Client) SearchProducts(ctx context.Context, terms string, pageSize int) ([]domain.Product, error) {
	params := url.Values{}
	params.Add("search_terms", terms)
	params.Add("search_simple", "1")
	params.Add("action", "process")
	params.Add("json", "1")
	params.Add("page_size", strconv.Itoa(pageSize))

	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode())

	status, body, err := c.doGet(ctx, "search", c.searchLimiter, reqURL)
	if err != nil {
		c.logger.Warn("search request failed", zap.String("terms", terms), zap.Error(err))
		return nil, err
	}

	if status != http.StatusOK {
		c.logger.Warn("search returned non-OK status",
			zap.String("terms", terms),
			zap.Int("status", status),
			zap.String("body", truncate(body)))
		return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, status)
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrCatalogUnavailable, err)
	}

	products := make([]domain.Product, 0, len(searchResp.Products))
	for i := range searchResp.Products {
		products = append(products, MapProduct(&searchResp.Products[i]))
	}

	c.logger.Debug("search completed", zap.String("terms", terms), zap.Int("results", len(products)))
	return products, nil
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody])
	}
	return string(body)
}

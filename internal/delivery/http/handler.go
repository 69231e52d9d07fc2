package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/foodscan/backend/internal/domain"
)

// ProductUsecase is the subset of the product service the handlers depend on
type ProductUsecase interface {
	GetProductReport(ctx context.Context, barcode string) (*domain.ProductReport, error)
	FindAlternatives(ctx context.Context, barcode string) ([]domain.Alternative, error)
	CheckIngredients(ctx context.Context, ingredientsText string) (*domain.IngredientCheck, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products ProductUsecase
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(products ProductUsecase, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		products: products,
		logger:   logger,
	}
}

// checkIngredientsRequest is the body of POST /api/v1/ingredients/check
type checkIngredientsRequest struct {
	IngredientsText string `json:"ingredientsText" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "foodscan-backend",
		"version": "1.0.0",
	})
}

// GetProduct returns the classified product report for a barcode
func (h *Handler) GetProduct(c *gin.Context) {
	report, err := h.products.GetProductReport(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetAlternatives returns safer alternatives for a barcode
func (h *Handler) GetAlternatives(c *gin.Context) {
	alternatives, err := h.products.FindAlternatives(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alternatives": alternatives})
}

// CheckIngredients flags risky ingredients in free text
func (h *Handler) CheckIngredients(c *gin.Context) {
	var req checkIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredientsText is required"})
		return
	}

	result, err := h.products.CheckIngredients(c.Request.Context(), req.IngredientsText)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondError maps domain errors onto HTTP responses
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
		message = "Product not found."
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusServiceUnavailable
		message = "Catalog request limit reached, try again shortly."
		c.Header("Retry-After", "60")
	case errors.Is(err, domain.ErrCatalogUnavailable):
		status = http.StatusBadGateway
		message = "Failed to fetch product data."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		message = "request cancelled"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
	}

	c.JSON(status, gin.H{"error": message})
}

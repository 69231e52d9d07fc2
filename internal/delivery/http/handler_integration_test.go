package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foodscan/backend/config"
	"github.com/foodscan/backend/internal/domain"
	"github.com/foodscan/backend/internal/infrastructure/cache"
	"github.com/foodscan/backend/internal/infrastructure/off"
	"github.com/foodscan/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const currentProductJSON = `{
	"status": 1,
	"product": {
		"code": "0001",
		"product_name": "Cheesy Crackers Original",
		"brands": "Snackco, Parent Foods",
		"ingredients_text": "Water, Enriched Flour, Red 40, Yellow 6, Salt",
		"nutriments": {"sugars_serving": 2.5, "sugars": 12, "sodium": "0.4", "energy-kcal": 480}
	}
}`

// candidateJSON renders a search hit with n risky ingredients.
func candidateJSON(code, name string, risky int) string {
	ingredients := []string{"flour"}
	pool := []string{"bha", "bht", "parabens", "propyl gallate", "titanium dioxide"}
	ingredients = append(ingredients, pool[:risky]...)
	return fmt.Sprintf(`{"code":%q,"product_name":%q,"ingredients_text":%q,"nutriments":{"sugars":4}}`,
		code, name, strings.Join(ingredients, ", "))
}

// newCatalogServer fakes the Open Food Facts endpoints used by the service.
func newCatalogServer(t *testing.T, searchStatus int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v0/product/0001.json":
			fmt.Fprint(w, currentProductJSON)
		case r.URL.Path == "/api/v0/product/0002.json":
			fmt.Fprint(w, `{"status": 1, "product": {"code": "0002", "product_name": "Plain Water"}}`)
		case strings.HasPrefix(r.URL.Path, "/api/v0/product/"):
			fmt.Fprint(w, `{"status": 0, "status_verbose": "product not found"}`)
		case r.URL.Path == "/cgi/search.pl":
			if searchStatus != http.StatusOK {
				w.WriteHeader(searchStatus)
				return
			}
			products := []string{
				candidateJSON("1000", "Crackers A", 3),
				candidateJSON("0001", "Cheesy Crackers Original", 0),
				candidateJSON("1001", "Crackers B", 1),
				candidateJSON("1002", "Crackers C", 0),
				candidateJSON("1003", "Crackers D", 2),
				candidateJSON("1004", "Crackers E", 1),
				candidateJSON("1005", "Crackers F", 5),
			}
			fmt.Fprintf(w, `{"count": %d, "products": [%s]}`, len(products), strings.Join(products, ","))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// setupTestRouter wires the real service against a fake catalog
func setupTestRouter(t *testing.T, searchStatus int) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Cache: config.CacheConfig{Type: "memory"},
	}

	server := newCatalogServer(t, searchStatus)
	client := off.NewClient(off.ClientConfig{
		BaseURL:              server.URL,
		ProductRatePerMinute: 60000,
		SearchRatePerMinute:  60000,
	}, zap.NewNop())

	memoryCache := cache.NewMemoryCache()
	t.Cleanup(func() { memoryCache.Close() })

	service := usecase.NewProductService(memoryCache, client, zap.NewNop(), usecase.ProductServiceConfig{})
	handler := NewHandler(service, zap.NewNop())

	return SetupRouter(cfg, handler, zap.NewNop())
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(t, http.StatusOK)

	t.Run("returns healthy status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "foodscan-backend", response["service"])
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			req := httptest.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
		}
	})
}

func TestGetProductEndpoint(t *testing.T) {
	router := setupTestRouter(t, http.StatusOK)

	t.Run("returns classified report", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/0001", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var report domain.ProductReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))

		assert.Equal(t, "Snackco – Cheesy Crackers Original", report.DisplayName)
		require.NotNil(t, report.WarningsCount)
		assert.Equal(t, 2, *report.WarningsCount)

		require.Len(t, report.FlaggedIngredients, 2)
		assert.Equal(t, "Red 40", report.FlaggedIngredients[0].Ingredient)
		assert.Equal(t, "Yellow 6", report.FlaggedIngredients[1].Ingredient)

		require.Len(t, report.Nutrients, 4)
		sugar := report.Nutrients[0]
		assert.Equal(t, domain.NutrientSugar, sugar.Nutrient)
		require.NotNil(t, sugar.Value)
		assert.Equal(t, 2.5, *sugar.Value)
		assert.Equal(t, domain.LevelGood, sugar.Level)
		assert.Equal(t, "Great", sugar.Label)

		satFat := report.Nutrients[2]
		assert.Nil(t, satFat.Value)
		assert.Equal(t, domain.LevelNone, satFat.Level)

		calories := report.Nutrients[3]
		assert.Equal(t, domain.LevelTerrible, calories.Level)
	})

	t.Run("product without ingredients has null warning count", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/0002", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Nil(t, response["warningsCount"])
		assert.Equal(t, []interface{}{}, response["flaggedIngredients"])
	})

	t.Run("unknown barcode is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/9999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Product not found.")
	})

	t.Run("non-numeric barcode is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetAlternativesEndpoint(t *testing.T) {
	t.Run("returns safer candidates in search order", func(t *testing.T) {
		router := setupTestRouter(t, http.StatusOK)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/0001/alternatives", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Alternatives []domain.Alternative `json:"alternatives"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

		require.Len(t, response.Alternatives, 3)
		codes := []string{}
		counts := []int{}
		for _, alt := range response.Alternatives {
			codes = append(codes, alt.Product.Code)
			counts = append(counts, alt.WarningsCount)
			assert.Len(t, alt.Nutrients, 4)
		}
		assert.Equal(t, []string{"1001", "1002", "1004"}, codes)
		assert.Equal(t, []int{1, 0, 1}, counts)
	})

	t.Run("search failure degrades to empty list", func(t *testing.T) {
		router := setupTestRouter(t, http.StatusServiceUnavailable)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/0001/alternatives", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"alternatives": []}`, w.Body.String())
	})

	t.Run("unknown barcode is not found", func(t *testing.T) {
		router := setupTestRouter(t, http.StatusOK)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/9999/alternatives", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCheckIngredientsEndpoint(t *testing.T) {
	router := setupTestRouter(t, http.StatusOK)

	t.Run("flags risky ingredients", func(t *testing.T) {
		payload := `{"ingredientsText":"Water, Red 40, Salt"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ingredients/check", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var result domain.IngredientCheck
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 1, result.WarningsCount)
		require.Len(t, result.Ingredients, 1)
		assert.Equal(t, "Red 40", result.Ingredients[0].Ingredient)
		assert.Equal(t, "Linked to hyperactivity in children", result.Ingredients[0].Concerns)
	})

	t.Run("rejects missing body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ingredients/check", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

package off

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/foodscan/backend/internal/domain"
)

// productResponse is the body of GET /api/v0/product/{barcode}.json
type productResponse struct {
	Status  int         `json:"status"`
	Product *rawProduct `json:"product"`
}

// searchResponse is the body of GET /cgi/search.pl?json=1
type searchResponse struct {
	Products []rawProduct `json:"products"`
}

// rawProduct is the subset of an Open Food Facts product record we read.
// Codes occasionally arrive as numbers and nutriments as strings.
type rawProduct struct {
	Code            json.RawMessage `json:"code"`
	ProductName     string          `json:"product_name"`
	ImageURL        string          `json:"image_url"`
	IngredientsText string          `json:"ingredients_text"`
	Brands          string          `json:"brands"`
	Nutriments      map[string]any  `json:"nutriments"`
}

// MapProduct converts a raw catalog record to the domain Product
func MapProduct(raw *rawProduct) domain.Product {
	return domain.Product{
		Code:            decodeCode(raw.Code),
		ProductName:     strings.TrimSpace(raw.ProductName),
		ImageURL:        raw.ImageURL,
		IngredientsText: raw.IngredientsText,
		Brands:          raw.Brands,
		Nutriments:      extractNutriments(raw.Nutriments),
	}
}

// decodeCode accepts the code as either a JSON string or number.
func decodeCode(msg json.RawMessage) string {
	if len(msg) == 0 || string(msg) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(msg, &n); err == nil {
		return n.String()
	}
	return ""
}

// extractNutriments keeps every nutriment that coerces to a finite number.
func extractNutriments(m map[string]any) domain.NutrientSet {
	if len(m) == 0 {
		return nil
	}
	set := make(domain.NutrientSet, len(m))
	for key, raw := range m {
		if v, ok := extractFloat(raw); ok {
			set[key] = v
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// extractFloat coerces a nutriment value to float64.
func extractFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

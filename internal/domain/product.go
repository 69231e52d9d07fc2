package domain

import "strings"

// Product is a single catalog item as returned by Open Food Facts.
// Absent fields are represented by their zero value.
type Product struct {
	Code            string      `json:"code,omitempty"`
	ProductName     string      `json:"product_name,omitempty"`
	ImageURL        string      `json:"image_url,omitempty"`
	IngredientsText string      `json:"ingredients_text,omitempty"`
	Brands          string      `json:"brands,omitempty"`
	Nutriments      NutrientSet `json:"nutriments,omitempty"`
}

// HasIngredients reports whether the product carries ingredient text.
func (p *Product) HasIngredients() bool {
	return p.IngredientsText != ""
}

// PrimaryBrand returns the first entry of the comma-separated brands list.
func (p *Product) PrimaryBrand() string {
	if p.Brands == "" {
		return ""
	}
	first, _, _ := strings.Cut(p.Brands, ",")
	return strings.TrimSpace(first)
}

// DisplayName renders "Brand – Name", falling back to the bare name or "Unnamed Product".
func (p *Product) DisplayName() string {
	name := p.ProductName
	if name == "" {
		name = "Unnamed Product"
	}
	if brand := p.PrimaryBrand(); brand != "" {
		return brand + " – " + name
	}
	return name
}

// SearchTerm is the first whitespace-delimited token of the product name,
// used to source alternative candidates.
func (p *Product) SearchTerm() string {
	fields := strings.Fields(p.ProductName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Nutrient identifies one of the tracked nutrients.
type Nutrient string

const (
	NutrientSugar        Nutrient = "sugar"
	NutrientSodium       Nutrient = "sodium"
	NutrientSaturatedFat Nutrient = "saturated_fat"
	NutrientCalories     Nutrient = "calories"
)

// TrackedNutrients lists the nutrients in display order.
var TrackedNutrients = []Nutrient{
	NutrientSugar,
	NutrientSodium,
	NutrientSaturatedFat,
	NutrientCalories,
}

// nutrientKeys maps each nutrient to its (per serving, base) nutriment keys.
var nutrientKeys = map[Nutrient][2]string{
	NutrientSugar:        {"sugars_serving", "sugars"},
	NutrientSodium:       {"sodium_serving", "sodium"},
	NutrientSaturatedFat: {"saturated-fat_serving", "saturated_fat"},
	NutrientCalories:     {"energy-kcal_serving", "energy-kcal"},
}

// Keys returns the per-serving and base nutriment keys for n.
func (n Nutrient) Keys() (serving, base string) {
	k := nutrientKeys[n]
	return k[0], k[1]
}

// NutrientSet maps nutriment keys to their numeric values.
type NutrientSet map[string]float64

// Value returns the value for n, preferring the per-serving key over the base key.
func (s NutrientSet) Value(n Nutrient) (float64, bool) {
	if s == nil {
		return 0, false
	}
	serving, base := n.Keys()
	if v, ok := s[serving]; ok {
		return v, true
	}
	if v, ok := s[base]; ok {
		return v, true
	}
	return 0, false
}

package domain

// NoConcerns is the concern value for ingredients not present in the risk table.
// It is a value, not an error.
const NoConcerns = "No specific warnings found."

// IngredientConcern pairs an ingredient with its concern text.
type IngredientConcern struct {
	Ingredient string `json:"ingredient"`
	Concerns   string `json:"concerns"`
}

// Flagged reports whether the concern is a real warning.
func (c IngredientConcern) Flagged() bool {
	return c.Concerns != "" && c.Concerns != NoConcerns
}

// Alternative is a candidate product that scored fewer warnings than the current one.
type Alternative struct {
	Product       Product           `json:"product"`
	WarningsCount int               `json:"warningsCount"`
	Nutrients     []NutrientReading `json:"nutrients,omitempty"`
}

// ProductReport is everything the product detail view renders.
type ProductReport struct {
	Product            Product             `json:"product"`
	DisplayName        string              `json:"displayName"`
	Nutrients          []NutrientReading   `json:"nutrients"`
	FlaggedIngredients []IngredientConcern `json:"flaggedIngredients"`
	// WarningsCount is nil when the product has no ingredient text.
	WarningsCount *int `json:"warningsCount"`
}

// IngredientCheck is the result of checking free-text ingredients.
type IngredientCheck struct {
	Ingredients   []IngredientConcern `json:"ingredients"`
	WarningsCount int                 `json:"warningsCount"`
}

package usecase

import (
	"strings"

	"github.com/foodscan/backend/internal/domain"
)

// riskEntry is one known-risky ingredient substring and its concern.
type riskEntry struct {
	substring string
	concern   string
}

// riskTable is scanned in order; the first substring contained in the ingredient wins.
var riskTable = []riskEntry{
	{"red 40", "Linked to hyperactivity in children"},
	{"yellow 5", "May cause allergic reactions"},
	{"yellow 6", "Potential carcinogen"},
	{"bha", "Classified as possibly carcinogenic"},
	{"bht", "Linked to hormone disruption"},
	{"titanium dioxide", "Possible DNA damage when inhaled"},
	{"sodium benzoate", "Can form benzene (a carcinogen) when combined with vitamin C"},
	{"potassium bromate", "Banned in many countries due to cancer risk"},
	{"propyl gallate", "Potential endocrine disruptor"},
	{"parabens", "Linked to hormone disruption"},
	{"artificial flavor", "Generic term for synthetic additives"},
	{"artificial color", "Generic term for synthetic dyes"},
}

// normalizeIngredient trims and lowercases an ingredient name.
func normalizeIngredient(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// LookupConcern returns the concern for the first risk table entry contained in
// the normalized ingredient name, or domain.NoConcerns.
func LookupConcern(ingredient string) string {
	normalized := normalizeIngredient(ingredient)
	for _, entry := range riskTable {
		if strings.Contains(normalized, entry.substring) {
			return entry.concern
		}
	}
	return domain.NoConcerns
}

// CheckIngredient pairs the ingredient, as given, with its concern.
func CheckIngredient(ingredient string) domain.IngredientConcern {
	return domain.IngredientConcern{
		Ingredient: ingredient,
		Concerns:   LookupConcern(ingredient),
	}
}

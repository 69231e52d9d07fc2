package usecase

import (
	"math"

	"github.com/foodscan/backend/internal/domain"
)

// nutrientProfile holds the fixed classification thresholds and display unit per nutrient.
type nutrientProfile struct {
	thresholds domain.Thresholds
	unit       string
}

var nutrientProfiles = map[domain.Nutrient]nutrientProfile{
	domain.NutrientSugar:        {domain.Thresholds{Good: 5, OK: 9.5, Bad: 16.5}, "g"},
	domain.NutrientSodium:       {domain.Thresholds{Good: 95, OK: 190, Bad: 335}, "g"},
	domain.NutrientSaturatedFat: {domain.Thresholds{Good: 1.1, OK: 2.1, Bad: 3.7}, "g"},
	domain.NutrientCalories:     {domain.Thresholds{Good: 80, OK: 190, Bad: 300}, "kcal"},
}

// ThresholdsFor returns the fixed thresholds for a tracked nutrient.
func ThresholdsFor(n domain.Nutrient) (domain.Thresholds, bool) {
	p, ok := nutrientProfiles[n]
	return p.thresholds, ok
}

// Classify maps a nutrient value onto a severity level. Bounds are inclusive:
// a value equal to t.Good is still good. A nil or NaN value yields LevelNone.
func Classify(value *float64, t domain.Thresholds) domain.Level {
	if value == nil || math.IsNaN(*value) {
		return domain.LevelNone
	}
	v := *value
	switch {
	case v <= t.Good:
		return domain.LevelGood
	case v <= t.OK:
		return domain.LevelOK
	case v <= t.Bad:
		return domain.LevelBad
	default:
		return domain.LevelTerrible
	}
}

// ClassifyNutrient classifies the product's value for a single nutrient.
func ClassifyNutrient(set domain.NutrientSet, n domain.Nutrient) domain.NutrientReading {
	profile := nutrientProfiles[n]
	reading := domain.NutrientReading{Nutrient: n, Unit: profile.unit}

	if v, ok := set.Value(n); ok {
		reading.Value = &v
	}
	reading.Level = Classify(reading.Value, profile.thresholds)
	reading.Label = reading.Level.Label()
	return reading
}

// ClassifyProduct returns one reading per tracked nutrient, in display order.
func ClassifyProduct(p *domain.Product) []domain.NutrientReading {
	readings := make([]domain.NutrientReading, 0, len(domain.TrackedNutrients))
	for _, n := range domain.TrackedNutrients {
		readings = append(readings, ClassifyNutrient(p.Nutriments, n))
	}
	return readings
}

package domain

// Level is the severity bucket a nutrient value falls into.
type Level string

const (
	LevelNone     Level = "none"
	LevelGood     Level = "good"
	LevelOK       Level = "ok"
	LevelBad      Level = "bad"
	LevelTerrible Level = "terrible"
)

// Label is the human readable tooltip for the level.
func (l Level) Label() string {
	switch l {
	case LevelGood:
		return "Great"
	case LevelOK:
		return "OK"
	case LevelBad:
		return "Bad"
	case LevelTerrible:
		return "Terrible"
	default:
		return ""
	}
}

// Thresholds holds the strictly ascending upper bounds of the good, ok and bad levels.
type Thresholds struct {
	Good float64 `json:"good"`
	OK   float64 `json:"ok"`
	Bad  float64 `json:"bad"`
}

// NutrientReading is a classified nutrient value for display.
type NutrientReading struct {
	Nutrient Nutrient `json:"nutrient"`
	Value    *float64 `json:"value"`
	Unit     string   `json:"unit"`
	Level    Level    `json:"level"`
	Label    string   `json:"label"`
}

package off

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFloat(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"number", 12.5, 12.5, true},
		{"numeric string", "0.4", 0.4, true},
		{"padded string", " 3 ", 3, true},
		{"unit string", "kcal", 0, false},
		{"NaN string", "NaN", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractFloat(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCode(t *testing.T) {
	assert.Equal(t, "0123", decodeCode(json.RawMessage(`"0123"`)))
	assert.Equal(t, "737628064502", decodeCode(json.RawMessage(`737628064502`)))
	assert.Equal(t, "", decodeCode(json.RawMessage(`null`)))
	assert.Equal(t, "", decodeCode(nil))
	assert.Equal(t, "", decodeCode(json.RawMessage(`{}`)))
}

func TestMapProduct(t *testing.T) {
	var raw rawProduct
	require.NoError(t, json.Unmarshal([]byte(`{
		"code": "42",
		"product_name": "  Peanut Butter ",
		"brands": "Nutty, Co",
		"image_url": "https://img/pb.jpg",
		"ingredients_text": "peanuts, salt",
		"nutriments": {
			"sugars_serving": 1.5,
			"sugars": "6",
			"saturated-fat_serving": 2,
			"energy-kcal": 588,
			"nutrition-score-fr": "d"
		}
	}`), &raw))

	p := MapProduct(&raw)

	assert.Equal(t, "42", p.Code)
	assert.Equal(t, "Peanut Butter", p.ProductName)
	assert.Equal(t, "Nutty, Co", p.Brands)
	assert.Equal(t, "https://img/pb.jpg", p.ImageURL)
	assert.Equal(t, "peanuts, salt", p.IngredientsText)
	assert.Len(t, p.Nutriments, 4)
	assert.Equal(t, 6.0, p.Nutriments["sugars"])
}

func TestMapProduct_NoNutriments(t *testing.T) {
	p := MapProduct(&rawProduct{Nutriments: map[string]any{"unit": "g"}})
	assert.Nil(t, p.Nutriments)
}

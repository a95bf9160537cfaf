// Package nutrition scores nutrition facts and derives health insights.
package nutrition

import (
	"fmt"
	"math"
)

// Facts holds nutrition values per 100g/100ml.
// Sodium is in grams, everything else in grams except Calories (kcal).
type Facts struct {
	Calories     float64 `json:"calories"`
	Fat          float64 `json:"fat"`
	SaturatedFat float64 `json:"saturatedFat"`
	Carbs        float64 `json:"carbs"`
	Sugar        float64 `json:"sugar"`
	Protein      float64 `json:"protein"`
	Sodium       float64 `json:"sodium"`
	Fiber        float64 `json:"fiber"`
}

// FactsFromNutriments extracts Facts from an Open Food Facts style
// nutriments map. Missing or implausible values are left at zero.
// Energy prefers energy-kcal_100g and falls back to energy-kj_100g / 4.184.
func FactsFromNutriments(nutriments map[string]any) *Facts {
	if nutriments == nil {
		return nil
	}
	f := &Facts{}
	if v, ok := extractFloat(nutriments, "energy-kcal_100g"); ok {
		f.Calories = clampRange(v, 0, 10000)
	} else if v, ok := extractFloat(nutriments, "energy-kj_100g"); ok {
		f.Calories = clampRange(v/4.184, 0, 10000)
	}
	if v, ok := extractFloat(nutriments, "fat_100g"); ok {
		f.Fat = clampRange(v, 0, 100)
	}
	if v, ok := extractFloat(nutriments, "saturated-fat_100g"); ok {
		f.SaturatedFat = clampRange(v, 0, 100)
	}
	if v, ok := extractFloat(nutriments, "carbohydrates_100g"); ok {
		f.Carbs = clampRange(v, 0, 100)
	}
	if v, ok := extractFloat(nutriments, "sugars_100g"); ok {
		f.Sugar = clampRange(v, 0, 100)
	}
	if v, ok := extractFloat(nutriments, "proteins_100g"); ok {
		f.Protein = clampRange(v, 0, 100)
	}
	if v, ok := extractFloat(nutriments, "sodium_100g"); ok {
		f.Sodium = clampRange(v, 0, 100)
	}
	if v, ok := extractFloat(nutriments, "fiber_100g"); ok {
		f.Fiber = clampRange(v, 0, 100)
	}
	return f
}

// clampRange zeroes values outside [min, max] rather than propagating
// garbage from retailer feeds.
func clampRange(v, min, max float64) float64 {
	if math.IsNaN(v) || v < min || v > max {
		return 0
	}
	return v
}

// extractFloat coerces a nutriments map value to float64.
func extractFloat(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case int:
		return float64(x), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(x, "%f", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

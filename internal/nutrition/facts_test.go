package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactsFromNutriments_Nil(t *testing.T) {
	assert.Nil(t, FactsFromNutriments(nil))
}

func TestFactsFromNutriments_Kcal(t *testing.T) {
	facts := FactsFromNutriments(map[string]any{
		"energy-kcal_100g":   456.0,
		"sugars_100g":        29.7,
		"sodium_100g":        0.34,
		"saturated-fat_100g": 8.1,
		"proteins_100g":      7.2,
		"fiber_100g":         2.1,
	})
	assert.Equal(t, 456.0, facts.Calories)
	assert.Equal(t, 29.7, facts.Sugar)
	assert.Equal(t, 0.34, facts.Sodium)
	assert.Equal(t, 8.1, facts.SaturatedFat)
}

func TestFactsFromNutriments_KjFallback(t *testing.T) {
	facts := FactsFromNutriments(map[string]any{"energy-kj_100g": 1908.0})
	assert.InDelta(t, 456, facts.Calories, 1)
}

func TestFactsFromNutriments_StringValues(t *testing.T) {
	facts := FactsFromNutriments(map[string]any{"fat_100g": "12.5"})
	assert.Equal(t, 12.5, facts.Fat)
}

func TestFactsFromNutriments_ImplausibleValuesZeroed(t *testing.T) {
	facts := FactsFromNutriments(map[string]any{
		"proteins_100g":    250.0, // more than 100g per 100g
		"fat_100g":         -3.0,
		"energy-kcal_100g": 50000.0,
	})
	assert.Equal(t, 0.0, facts.Protein)
	assert.Equal(t, 0.0, facts.Fat)
	assert.Equal(t, 0.0, facts.Calories)
}

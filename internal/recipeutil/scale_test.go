package recipeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cooknet-client/internal/types"
)

var (
	grams  = types.Unit{Code: "g", Label: "grams"}
	millis = types.Unit{Code: "ml", Label: "millilitres"}
	pieces = types.Unit{Code: "pcs", Label: "pieces"}
	spoons = types.Unit{Code: "tbsp", Label: "tablespoons"}
)

func TestScaleAmountNumeric(t *testing.T) {
	assert.Equal(t, "500 g", ScaleAmount("250", 2, grams))
	assert.Equal(t, "125 g", ScaleAmount("250", 0.5, grams))
	assert.Equal(t, "4 pcs", ScaleAmount("2", 2, pieces))
}

func TestScaleAmountAcceptsDecimalComma(t *testing.T) {
	assert.Equal(t, "3 tablespoons", ScaleAmount("1,5", 2, spoons))
}

func TestScaleAmountRollsOverUnits(t *testing.T) {
	assert.Equal(t, "1.20 kg", ScaleAmount("400", 3, grams))
	assert.Equal(t, "1.50 l", ScaleAmount("500", 3, millis))
	assert.Equal(t, "999 g", ScaleAmount("333", 3, grams))
}

func TestScaleAmountFreeTextUnchanged(t *testing.T) {
	assert.Equal(t, "to taste", ScaleAmount("to taste", 2, grams))
	assert.Equal(t, "a pinch", ScaleAmount("a pinch", 0.5, grams))
	assert.Equal(t, "", ScaleAmount("   ", 2, grams))
}

func TestScaleAmountGenericUnit(t *testing.T) {
	assert.Equal(t, "2.5 tablespoons", ScaleAmount("5", 0.5, spoons))
	assert.Equal(t, "5", ScaleAmount("5", 1, types.Unit{}))
}

func TestScaleServings(t *testing.T) {
	r := types.Recipe{BaseServings: 4}
	assert.Equal(t, 2.0, ScaleServings(r, 8))
	assert.Equal(t, 0.5, ScaleServings(r, 2))
	assert.Equal(t, 1.0, ScaleServings(r, 4))

	// Non-positive targets keep the recipe as written.
	assert.Equal(t, 1.0, ScaleServings(r, 0))
	assert.Equal(t, 1.0, ScaleServings(r, -1))

	// A recipe without a base serving count scales from 1.
	assert.Equal(t, 3.0, ScaleServings(types.Recipe{}, 3))
}

func TestCaloriesPerServing(t *testing.T) {
	total := 900.0
	kcal, ok := CaloriesPerServing(types.Recipe{TotalCalories: &total, BaseServings: 4})
	require.True(t, ok)
	assert.Equal(t, 225, kcal)

	// Rounded to the nearest whole calorie.
	total = 1000
	kcal, ok = CaloriesPerServing(types.Recipe{TotalCalories: &total, BaseServings: 3})
	require.True(t, ok)
	assert.Equal(t, 333, kcal)

	_, ok = CaloriesPerServing(types.Recipe{BaseServings: 4})
	assert.False(t, ok)

	_, ok = CaloriesPerServing(types.Recipe{TotalCalories: &total})
	assert.False(t, ok)
}

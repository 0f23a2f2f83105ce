package recipeutil

import (
	"fmt"
	"strconv"
	"strings"

	"cooknet-client/internal/types"
)

// ScaleAmount multiplies a numeric ingredient amount by the serving
// multiplier and formats it for display. Free-text amounts ("to taste")
// come back unchanged. Decimal commas are accepted on input.
func ScaleAmount(amount string, multiplier float64, unit types.Unit) string {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return ""
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64)
	if err != nil {
		return amount
	}
	return formatAmount(parsed*multiplier, unit)
}

// formatAmount renders a numeric amount with unit-aware rollover: grams to
// kilograms and millilitres to litres at 1000.
func formatAmount(v float64, unit types.Unit) string {
	switch unit.Code {
	case "g":
		if v >= 1000 {
			return fmt.Sprintf("%.2f kg", v/1000)
		}
		return fmt.Sprintf("%.0f g", v)
	case "ml":
		if v >= 1000 {
			return fmt.Sprintf("%.2f l", v/1000)
		}
		return fmt.Sprintf("%.0f ml", v)
	case "pcs":
		return fmt.Sprintf("%.0f pcs", v)
	}
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	if unit.Label == "" {
		return s
	}
	return s + " " + unit.Label
}

// ScaleServings returns the multiplier that converts a recipe's base
// serving count into the requested one. A non-positive base counts as 1.
func ScaleServings(r types.Recipe, servings int) float64 {
	base := r.BaseServings
	if base <= 0 {
		base = 1
	}
	if servings <= 0 {
		return 1
	}
	return float64(servings) / float64(base)
}

// CaloriesPerServing derives the per-serving calorie figure shown on the
// recipe page. Returns 0, false when the recipe has no calorie total.
func CaloriesPerServing(r types.Recipe) (int, bool) {
	if r.TotalCalories == nil || r.BaseServings <= 0 {
		return 0, false
	}
	return int(*r.TotalCalories/float64(r.BaseServings) + 0.5), true
}

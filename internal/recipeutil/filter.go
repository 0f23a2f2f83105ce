// Package recipeutil provides pure, in-memory transforms over fetched
// recipe lists: category filtering and grouping, ingredient-set filtering,
// search-term highlighting and serving-size scaling. Nothing here touches
// the network or any store.
package recipeutil

import "cooknet-client/internal/types"

// Bucket names used by GroupByCategoryType.
const (
	BucketAll          = "all"
	BucketUnclassified = "unclassified"
)

// FilterByStrictCategory keeps only recipes whose category map contains an
// entry matching both the type name and the value text. If either selector
// is empty the input is returned unchanged.
func FilterByStrictCategory(recipes []types.Recipe, typeName, valueName string) []types.Recipe {
	if typeName == "" || valueName == "" {
		return recipes
	}

	out := make([]types.Recipe, 0, len(recipes))
	for _, r := range recipes {
		for _, cv := range r.CategoryValues {
			if cv.TypeName == typeName && cv.CategoryValue == valueName {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Group is one bucket of a grouped recipe list.
type Group struct {
	Name    string
	Recipes []types.Recipe
}

// GroupByCategoryType partitions recipes by the value they carry for the
// given category type. Recipes without a value for that type land in the
// BucketUnclassified group. Buckets appear in first-encounter order, so the
// result is deterministic for a given input. An empty typeName yields a
// single BucketAll group holding every recipe in original order.
func GroupByCategoryType(recipes []types.Recipe, typeName string) []Group {
	if typeName == "" {
		return []Group{{Name: BucketAll, Recipes: recipes}}
	}

	index := make(map[string]int)
	var groups []Group
	for _, r := range recipes {
		name := BucketUnclassified
		for _, cv := range r.CategoryValues {
			if cv.TypeName == typeName {
				name = cv.CategoryValue
				break
			}
		}

		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Recipes = append(groups[i].Recipes, r)
	}
	return groups
}

// FilterByIngredients keeps only recipes whose ingredient list contains
// every required id. An empty id set is the identity transform.
func FilterByIngredients(recipes []types.Recipe, ids []int64) []types.Recipe {
	if len(ids) == 0 {
		return recipes
	}

	out := make([]types.Recipe, 0, len(recipes))
	for _, r := range recipes {
		have := make(map[int64]bool, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			if ing.ID != nil {
				have[*ing.ID] = true
			}
		}
		all := true
		for _, id := range ids {
			if !have[id] {
				all = false
				break
			}
		}
		if all {
			out = append(out, r)
		}
	}
	return out
}

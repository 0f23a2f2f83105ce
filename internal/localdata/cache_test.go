package localdata

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cooknet-client/internal/types"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSaveAndLoadRecipes(t *testing.T) {
	c := openTestCache(t)

	desc := "hearty beet soup"
	recipes := []types.Recipe{
		{ID: 1, Name: "Borscht", Status: types.StatusApproved, Description: &desc, Steps: []string{"simmer"}},
		{ID: 2, Name: "Frittata", Status: types.StatusApproved},
	}
	require.NoError(t, c.SaveRecipes(recipes))

	got, found, err := c.Recipe(1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Borscht", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
	assert.Equal(t, []string{"simmer"}, got.Steps)

	_, found, err = c.Recipe(99)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveRecipesUpserts(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.SaveRecipes([]types.Recipe{{ID: 1, Name: "Borscht", Status: types.StatusPending}}))
	require.NoError(t, c.SaveRecipes([]types.Recipe{{ID: 1, Name: "Borscht", Status: types.StatusApproved}}))

	all, err := c.Recipes()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, types.StatusApproved, all[0].Status)
}

func TestSearchRecipesMatchesCaseInsensitively(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.SaveRecipes([]types.Recipe{
		{ID: 1, Name: "Borscht"},
		{ID: 2, Name: "Cabbage Pie"},
		{ID: 3, Name: "Beet Salad"},
	}))

	got, err := c.SearchRecipes("ORSC")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Borscht", got[0].Name)

	got, err = c.SearchRecipes("")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRecipesOrderedByName(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.SaveRecipes([]types.Recipe{
		{ID: 1, Name: "Frittata"},
		{ID: 2, Name: "Beet Salad"},
	}))

	all, err := c.Recipes()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Beet Salad", all[0].Name)
	assert.Equal(t, "Frittata", all[1].Name)
}

func TestDictionaryRoundTrip(t *testing.T) {
	c := openTestCache(t)

	var out []types.Unit
	found, err := c.LoadDictionary(DictUnits, &out)
	require.NoError(t, err)
	assert.False(t, found)

	id := int64(1)
	units := []types.Unit{{ID: &id, Code: "g", Label: "grams"}}
	require.NoError(t, c.SaveDictionary(DictUnits, units))

	found, err = c.LoadDictionary(DictUnits, &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, out, 1)
	assert.Equal(t, "g", out[0].Code)
}

func TestPurge(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.SaveRecipes([]types.Recipe{{ID: 1, Name: "Borscht"}}))
	require.NoError(t, c.SaveDictionary(DictUnits, []types.Unit{}))
	require.NoError(t, c.Purge())

	all, err := c.Recipes()
	require.NoError(t, err)
	assert.Empty(t, all)

	var out []types.Unit
	found, err := c.LoadDictionary(DictUnits, &out)
	require.NoError(t, err)
	assert.False(t, found)
}

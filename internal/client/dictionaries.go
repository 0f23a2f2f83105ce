package client

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"cooknet-client/internal/types"
)

// Dictionary data (ingredients, units, the category taxonomy) changes
// rarely, so fetched lists are held in an expiring cache.
const (
	dictCacheSize = 8
	dictCacheTTL  = 10 * time.Minute
)

const (
	dictKeyIngredients    = "ingredients"
	dictKeyUnits          = "units"
	dictKeyCategoryTypes  = "category-types"
	dictKeyCategoryValues = "category-values"
)

type dictCache struct {
	lru *expirable.LRU[string, any]
}

func newDictCache() *dictCache {
	return &dictCache{
		lru: expirable.NewLRU[string, any](dictCacheSize, nil, dictCacheTTL),
	}
}

// Ingredients returns the full ingredient dictionary.
func (c *Client) Ingredients(ctx context.Context) ([]types.Ingredient, error) {
	if v, ok := c.dict.lru.Get(dictKeyIngredients); ok {
		return v.([]types.Ingredient), nil
	}
	var out []types.Ingredient
	if err := c.get(ctx, "/api/ingredients/all", nil, &out); err != nil {
		return nil, err
	}
	c.dict.lru.Add(dictKeyIngredients, out)
	return out, nil
}

// Units returns the measurement unit dictionary.
func (c *Client) Units(ctx context.Context) ([]types.Unit, error) {
	if v, ok := c.dict.lru.Get(dictKeyUnits); ok {
		return v.([]types.Unit), nil
	}
	var out []types.Unit
	if err := c.get(ctx, "/api/units", nil, &out); err != nil {
		return nil, err
	}
	c.dict.lru.Add(dictKeyUnits, out)
	return out, nil
}

// CategoryTypes returns all category types (e.g. "Cuisine").
func (c *Client) CategoryTypes(ctx context.Context) ([]types.CategoryType, error) {
	if v, ok := c.dict.lru.Get(dictKeyCategoryTypes); ok {
		return v.([]types.CategoryType), nil
	}
	var out []types.CategoryType
	if err := c.get(ctx, "/api/category-type", nil, &out); err != nil {
		return nil, err
	}
	c.dict.lru.Add(dictKeyCategoryTypes, out)
	return out, nil
}

// CategoryValues returns all category values across every type.
func (c *Client) CategoryValues(ctx context.Context) ([]types.CategoryValue, error) {
	if v, ok := c.dict.lru.Get(dictKeyCategoryValues); ok {
		return v.([]types.CategoryValue), nil
	}
	var out []types.CategoryValue
	if err := c.get(ctx, "/api/category-value", nil, &out); err != nil {
		return nil, err
	}
	c.dict.lru.Add(dictKeyCategoryValues, out)
	return out, nil
}

// InvalidateDictionaries drops all cached dictionary data, forcing the next
// read to hit the platform. Admin mutations call this so their own
// subsequent reads are not stale.
func (c *Client) InvalidateDictionaries() {
	c.dict.lru.Purge()
}

package client

import (
	"context"
	"net/http"
	"strconv"

	"cooknet-client/internal/types"
)

// Favorites lists the authenticated user's favorite recipes.
func (c *Client) Favorites(ctx context.Context) ([]types.Recipe, error) {
	var recipes []types.Recipe
	if err := c.get(ctx, "/api/favorites", nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// AddFavorite marks a recipe as a favorite.
func (c *Client) AddFavorite(ctx context.Context, recipeID int64) error {
	return c.doJSON(ctx, http.MethodPost, favoritePath(recipeID), nil, nil, nil)
}

// RemoveFavorite unmarks a favorite.
func (c *Client) RemoveFavorite(ctx context.Context, recipeID int64) error {
	return c.doJSON(ctx, http.MethodDelete, favoritePath(recipeID), nil, nil, nil)
}

func favoritePath(id int64) string {
	return "/api/favorites/" + strconv.FormatInt(id, 10)
}

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"cooknet-client/internal/types"
)

// SearchRecipes queries the public recipe search. Both filters are
// optional; with neither set the platform returns all published recipes.
func (c *Client) SearchRecipes(ctx context.Context, name, ingredient string) (*types.Page[types.Recipe], error) {
	query := url.Values{}
	if name != "" {
		query.Set("name", name)
	}
	if ingredient != "" {
		query.Set("ingredient", ingredient)
	}
	var page types.Page[types.Recipe]
	if err := c.get(ctx, "/api/recipes/search", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchRecipesByIngredients returns recipes that use every listed
// ingredient id.
func (c *Client) SearchRecipesByIngredients(ctx context.Context, ingredientIDs []int64) ([]types.Recipe, error) {
	req := types.SearchByIngredientsRequest{IngredientIDs: ingredientIDs}
	if err := types.Validate(req); err != nil {
		return nil, err
	}
	var recipes []types.Recipe
	if err := c.doJSON(ctx, http.MethodPost, "/api/recipes/search/by-ingredients", nil, req, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetRecipe fetches a single recipe by id.
func (c *Client) GetRecipe(ctx context.Context, id int64) (*types.Recipe, error) {
	var recipe types.Recipe
	if err := c.get(ctx, recipePath(id), nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// MyRecipes lists the authenticated user's own recipes in any status.
func (c *Client) MyRecipes(ctx context.Context) ([]types.Recipe, error) {
	var recipes []types.Recipe
	if err := c.get(ctx, "/api/recipes/my/recipes", nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// PendingRecipes lists recipes awaiting moderation. Requires the moderator
// role.
func (c *Client) PendingRecipes(ctx context.Context) ([]types.Recipe, error) {
	var recipes []types.Recipe
	if err := c.get(ctx, "/api/recipes/pending", nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// CreateRecipe submits a new recipe. The platform creates it in DRAFT.
func (c *Client) CreateRecipe(ctx context.Context, req types.CreateRecipeRequest) (*types.Recipe, error) {
	if err := types.Validate(req); err != nil {
		return nil, err
	}
	var recipe types.Recipe
	if err := c.doJSON(ctx, http.MethodPost, "/api/recipes", nil, req, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe replaces an existing recipe's content.
func (c *Client) UpdateRecipe(ctx context.Context, id int64, req types.UpdateRecipeRequest) (*types.Recipe, error) {
	if err := types.Validate(req); err != nil {
		return nil, err
	}
	var recipe types.Recipe
	if err := c.doJSON(ctx, http.MethodPut, recipePath(id), nil, req, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe removes a recipe.
func (c *Client) DeleteRecipe(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, recipePath(id), nil, nil, nil)
}

// SendToModeration moves a draft into the moderation queue.
func (c *Client) SendToModeration(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPatch, recipePath(id)+"/send-to-moderation", nil, nil, nil)
}

// ApproveRecipe publishes a pending recipe. Requires the moderator role.
func (c *Client) ApproveRecipe(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPatch, recipePath(id)+"/approve", nil, nil, nil)
}

// RejectRecipe rejects a pending recipe. Requires the moderator role.
func (c *Client) RejectRecipe(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPatch, recipePath(id)+"/reject", nil, nil, nil)
}

// RateRecipe submits a 1-5 score for a recipe. The caller refetches the
// recipe to observe the new average.
func (c *Client) RateRecipe(ctx context.Context, id int64, score int) error {
	req := types.RateRecipeRequest{Score: score}
	if err := types.Validate(req); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, recipePath(id)+"/rate", nil, req, nil)
}

func recipePath(id int64) string {
	return "/api/recipes/" + strconv.FormatInt(id, 10)
}

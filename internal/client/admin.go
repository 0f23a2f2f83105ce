package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"cooknet-client/internal/types"
)

// Admin calls require the ADMIN role; the platform enforces it, the client
// only forwards the bearer token.

// AdminUsers lists all user accounts.
func (c *Client) AdminUsers(ctx context.Context) ([]types.User, error) {
	var users []types.User
	if err := c.get(ctx, "/api/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminFilterUsers lists accounts matching the filter.
func (c *Client) AdminFilterUsers(ctx context.Context, filter types.UserFilter) ([]types.User, error) {
	query := url.Values{}
	if filter.Role != "" {
		query.Set("role", filter.Role)
	}
	if filter.Blocked != nil {
		query.Set("blocked", strconv.FormatBool(*filter.Blocked))
	}
	if filter.Email != "" {
		query.Set("email", filter.Email)
	}
	if filter.LastLoginFrom != "" {
		query.Set("lastLoginFrom", filter.LastLoginFrom)
	}
	if filter.LastLoginTo != "" {
		query.Set("lastLoginTo", filter.LastLoginTo)
	}
	var users []types.User
	if err := c.get(ctx, "/api/admin/users/filter", query, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminUserByEmail fetches a single account by email address.
func (c *Client) AdminUserByEmail(ctx context.Context, email string) (*types.User, error) {
	var user types.User
	if err := c.get(ctx, "/api/admin/users/by_email/"+url.PathEscape(email), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminUpdateUserRoles replaces a user's role set.
func (c *Client) AdminUpdateUserRoles(ctx context.Context, userID int64, roles []string) error {
	req := types.UpdateUserRoleRequest{Roles: roles}
	if err := types.Validate(req); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPut, adminUserPath(userID)+"/roles", nil, req, nil)
}

// AdminSetUserBlocked blocks or unblocks an account.
func (c *Client) AdminSetUserBlocked(ctx context.Context, userID int64, blocked bool) error {
	return c.doJSON(ctx, http.MethodPut, adminUserPath(userID)+"/block", nil, types.BlockUserRequest{Blocked: blocked}, nil)
}

// AdminDeleteUser removes an account.
func (c *Client) AdminDeleteUser(ctx context.Context, userID int64) error {
	return c.doJSON(ctx, http.MethodDelete, adminUserPath(userID), nil, nil, nil)
}

// AdminTopUsersByRating pages through users ranked by their recipes'
// average rating.
func (c *Client) AdminTopUsersByRating(ctx context.Context, page, size int) (*types.Page[types.UserRating], error) {
	var out types.Page[types.UserRating]
	if err := c.get(ctx, "/api/admin/users/rating", pageQuery(page, size), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminStatistics fetches the platform-wide dashboard counters.
func (c *Client) AdminStatistics(ctx context.Context) (*types.Statistics, error) {
	var stats types.Statistics
	if err := c.get(ctx, "/api/admin/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminAuditLogs lists the full audit trail.
func (c *Client) AdminAuditLogs(ctx context.Context) ([]types.AuditEntry, error) {
	var logs []types.AuditEntry
	if err := c.get(ctx, "/api/admin/audit", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// AdminFilterAuditLogs lists audit entries matching the filter.
func (c *Client) AdminFilterAuditLogs(ctx context.Context, filter types.AuditFilter) ([]types.AuditEntry, error) {
	query := url.Values{}
	if filter.ActionType != "" {
		query.Set("actionType", filter.ActionType)
	}
	if filter.EntityType != "" {
		query.Set("entityType", filter.EntityType)
	}
	if filter.From != "" {
		query.Set("from", filter.From)
	}
	if filter.To != "" {
		query.Set("to", filter.To)
	}
	var logs []types.AuditEntry
	if err := c.get(ctx, "/api/admin/audit/filter", query, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// --- Ingredient dictionary management ---

// AdminIngredients lists every dictionary ingredient.
func (c *Client) AdminIngredients(ctx context.Context) ([]types.Ingredient, error) {
	var out []types.Ingredient
	if err := c.get(ctx, "/api/admin/ingredients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminIngredientsPage searches ingredients with pagination.
func (c *Client) AdminIngredientsPage(ctx context.Context, name string, page, size int) (*types.Page[types.Ingredient], error) {
	query := pageQuery(page, size)
	if name != "" {
		query.Set("name", name)
	}
	var out types.Page[types.Ingredient]
	if err := c.get(ctx, "/api/admin/ingredients/page", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminCreateIngredient adds a dictionary ingredient.
func (c *Client) AdminCreateIngredient(ctx context.Context, req types.IngredientRequest) (*types.Ingredient, error) {
	if err := types.Validate(req); err != nil {
		return nil, err
	}
	var out types.Ingredient
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/ingredients", nil, req, &out); err != nil {
		return nil, err
	}
	c.InvalidateDictionaries()
	return &out, nil
}

// AdminUpdateIngredient edits a dictionary ingredient.
func (c *Client) AdminUpdateIngredient(ctx context.Context, id int64, req types.IngredientRequest) (*types.Ingredient, error) {
	if err := types.Validate(req); err != nil {
		return nil, err
	}
	var out types.Ingredient
	if err := c.doJSON(ctx, http.MethodPut, "/api/admin/ingredients/"+strconv.FormatInt(id, 10), nil, req, &out); err != nil {
		return nil, err
	}
	c.InvalidateDictionaries()
	return &out, nil
}

// AdminDeleteIngredient removes a dictionary ingredient.
func (c *Client) AdminDeleteIngredient(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/admin/ingredients/"+strconv.FormatInt(id, 10), nil, nil, nil); err != nil {
		return err
	}
	c.InvalidateDictionaries()
	return nil
}

// --- Category taxonomy management ---

// AdminCategoryTypes lists all category types.
func (c *Client) AdminCategoryTypes(ctx context.Context) ([]types.CategoryType, error) {
	var out []types.CategoryType
	if err := c.get(ctx, "/api/admin/categories-types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminCreateCategoryType adds a category type.
func (c *Client) AdminCreateCategoryType(ctx context.Context, nameType string) (*types.CategoryType, error) {
	req := types.CategoryTypeRequest{NameType: nameType}
	if err := types.Validate(req); err != nil {
		return nil, err
	}
	var out types.CategoryType
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/categories-types", nil, req, &out); err != nil {
		return nil, err
	}
	c.InvalidateDictionaries()
	return &out, nil
}

// AdminUpdateCategoryType renames a category type.
func (c *Client) AdminUpdateCategoryType(ctx context.Context, id int64, nameType string) (*types.CategoryType, error) {
	req := types.CategoryTypeRequest{NameType: nameType}
	if err := types.Validate(req); err != nil {
		return nil, err
	}
	var out types.CategoryType
	if err := c.doJSON(ctx, http.MethodPut, "/api/admin/categories-types/"+strconv.FormatInt(id, 10), nil, req, &out); err != nil {
		return nil, err
	}
	c.InvalidateDictionaries()
	return &out, nil
}

// AdminDeleteCategoryType removes a category type.
func (c *Client) AdminDeleteCategoryType(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/admin/categories-types/"+strconv.FormatInt(id, 10), nil, nil, nil); err != nil {
		return err
	}
	c.InvalidateDictionaries()
	return nil
}

// AdminCategoryValues lists all category values.
func (c *Client) AdminCategoryValues(ctx context.Context) ([]types.CategoryValue, error) {
	var out []types.CategoryValue
	if err := c.get(ctx, "/api/admin/category-values", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminCreateCategoryValue adds a value to a category type.
func (c *Client) AdminCreateCategoryValue(ctx context.Context, req types.CategoryValueRequest) (*types.CategoryValue, error) {
	if err := types.Validate(req); err != nil {
		return nil, err
	}
	var out types.CategoryValue
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/category-values", nil, req, &out); err != nil {
		return nil, err
	}
	c.InvalidateDictionaries()
	return &out, nil
}

// AdminUpdateCategoryValue edits a category value.
func (c *Client) AdminUpdateCategoryValue(ctx context.Context, id int64, req types.CategoryValueRequest) (*types.CategoryValue, error) {
	if err := types.Validate(req); err != nil {
		return nil, err
	}
	var out types.CategoryValue
	if err := c.doJSON(ctx, http.MethodPut, "/api/admin/category-values/"+strconv.FormatInt(id, 10), nil, req, &out); err != nil {
		return nil, err
	}
	c.InvalidateDictionaries()
	return &out, nil
}

// AdminDeleteCategoryValue removes a category value.
func (c *Client) AdminDeleteCategoryValue(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/admin/category-values/"+strconv.FormatInt(id, 10), nil, nil, nil); err != nil {
		return err
	}
	c.InvalidateDictionaries()
	return nil
}

// --- Feedback ticket management ---

// AdminFeedbackTickets pages through feedback tickets.
func (c *Client) AdminFeedbackTickets(ctx context.Context, page, size int) (*types.Page[types.Feedback], error) {
	var out types.Page[types.Feedback]
	if err := c.get(ctx, "/api/admin/feedback", pageQuery(page, size), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminUpdateFeedbackStatus moves a ticket through its workflow.
func (c *Client) AdminUpdateFeedbackStatus(ctx context.Context, id int64, status types.FeedbackStatus) error {
	req := types.UpdateFeedbackStatusRequest{Status: status}
	if err := types.Validate(req); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPut, "/api/admin/feedback/"+strconv.FormatInt(id, 10)+"/status", nil, req, nil)
}

func adminUserPath(id int64) string {
	return "/api/admin/users/" + strconv.FormatInt(id, 10)
}

func pageQuery(page, size int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	return query
}

package types

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate runs struct-tag validation on a request payload. Callers should
// validate before submitting so obvious mistakes never reach the wire.
func Validate(v any) error {
	return validate.Struct(v)
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UserInfo is the identity block embedded in a token response.
type UserInfo struct {
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Username string   `json:"username"`
}

// TokenResponse is returned by login and refresh-token calls.
type TokenResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	UserInfo     UserInfo `json:"userInfo"`
}

// RegisterResponse is returned by a successful registration.
type RegisterResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// RefreshTokenRequest is the payload for POST /api/auth/refresh-token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RecipeIngredientRequest references an ingredient when creating or
// updating a recipe.
type RecipeIngredientRequest struct {
	IngredientID int64  `json:"ingredientId" validate:"required"`
	Amount       string `json:"amount"`
	UnitID       int64  `json:"unitId"`
}

// CreateRecipeRequest is the payload for POST /api/recipes.
type CreateRecipeRequest struct {
	Name               string                    `json:"name" validate:"required"`
	Description        string                    `json:"description"`
	Image              *string                   `json:"image"`
	BaseServings       int                       `json:"baseServings" validate:"required,min=1"`
	CookingTimeMinutes *int                      `json:"cookingTimeMinutes"`
	CategoryValueIDs   []int64                   `json:"categoryValueIds"`
	Ingredients        []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	Steps              []string                  `json:"steps" validate:"required,min=1"`
}

// UpdateRecipeRequest is the payload for PUT /api/recipes/{id}.
type UpdateRecipeRequest struct {
	Name               string                    `json:"name" validate:"required"`
	Description        *string                   `json:"description"`
	Image              *string                   `json:"image"`
	BaseServings       int                       `json:"baseServings" validate:"required,min=1"`
	CookingTimeMinutes *int                      `json:"cookingTimeMinutes"`
	CategoryValueIDs   []int64                   `json:"categoryValueIds"`
	Ingredients        []RecipeIngredientRequest `json:"ingredients" validate:"omitempty,dive"`
	Steps              []string                  `json:"steps" validate:"required,min=1"`
}

// RateRecipeRequest is the payload for POST /api/recipes/{id}/rate.
type RateRecipeRequest struct {
	Score int `json:"score" validate:"required,min=1,max=5"`
}

// SearchByIngredientsRequest is the payload for
// POST /api/recipes/search/by-ingredients.
type SearchByIngredientsRequest struct {
	IngredientIDs []int64 `json:"ingredientIds" validate:"required,min=1"`
}

// FeedbackRequest is the payload for POST /api/feedback.
type FeedbackRequest struct {
	Email   string        `json:"email" validate:"required,email"`
	Topic   FeedbackTopic `json:"topic" validate:"required"`
	Message string        `json:"message" validate:"required"`
}

// UpdateFeedbackStatusRequest changes a ticket's status (admin).
type UpdateFeedbackStatusRequest struct {
	Status FeedbackStatus `json:"status" validate:"required"`
}

// UpdateUserRoleRequest replaces a user's role set (admin).
type UpdateUserRoleRequest struct {
	Roles []string `json:"roles" validate:"required,min=1"`
}

// BlockUserRequest sets a user's blocked flag (admin).
type BlockUserRequest struct {
	Blocked bool `json:"blocked"`
}

// IngredientRequest creates or updates a dictionary ingredient (admin).
type IngredientRequest struct {
	Name           string   `json:"name" validate:"required"`
	NameEng        *string  `json:"nameEng"`
	EnergyKcal100g *float64 `json:"energyKcal100g" validate:"omitempty,min=0"`
}

// CategoryTypeRequest creates or updates a category type (admin).
type CategoryTypeRequest struct {
	NameType string `json:"nameType" validate:"required"`
}

// CategoryValueRequest creates or updates a category value (admin).
type CategoryValueRequest struct {
	TypeID        int64  `json:"typeId" validate:"required"`
	TypeName      string `json:"typeName"`
	CategoryValue string `json:"categoryValue" validate:"required"`
}

// UserFilter narrows the admin user listing. Zero values are omitted from
// the query string.
type UserFilter struct {
	Role          string
	Blocked       *bool
	Email         string
	LastLoginFrom string
	LastLoginTo   string
}

// AuditFilter narrows the admin audit listing.
type AuditFilter struct {
	ActionType string
	EntityType string
	From       string
	To         string
}

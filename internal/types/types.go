package types

// RecipeStatus is the moderation lifecycle state of a recipe.
type RecipeStatus string

const (
	StatusDraft    RecipeStatus = "DRAFT"
	StatusPending  RecipeStatus = "PENDING"
	StatusApproved RecipeStatus = "APPROVED"
	StatusRejected RecipeStatus = "REJECTED"
)

// Well-known role names returned by the platform.
const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

// RecipeAuthor identifies the user who created a recipe.
type RecipeAuthor struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// CategoryType is one level of the two-level recipe taxonomy (e.g. "Cuisine").
type CategoryType struct {
	ID       int64  `json:"id"`
	NameType string `json:"nameType"`
}

// CategoryValue is a concrete value of a category type (e.g. "Italian").
type CategoryValue struct {
	ID            int64  `json:"id"`
	TypeID        int64  `json:"typeId"`
	TypeName      string `json:"typeName"`
	CategoryValue string `json:"categoryValue"`
}

// Unit is a measurement unit reference (grams, millilitres, pieces, ...).
type Unit struct {
	ID    *int64 `json:"id"`
	Code  string `json:"code"`
	Label string `json:"label"`
}

// IngredientWithAmount is one line of a recipe's ingredient list. Amount is
// free text: numeric ("250") or descriptive ("to taste").
type IngredientWithAmount struct {
	ID             *int64   `json:"id"`
	Name           string   `json:"name"`
	NameEng        *string  `json:"nameEng"`
	EnergyKcal100g *float64 `json:"energyKcal100g"`
	Amount         *string  `json:"amount"`
	Unit           Unit     `json:"unit"`
}

// Recipe is the full recipe representation returned by the platform.
// CategoryValues is keyed by category type name; keys are unique per type.
type Recipe struct {
	ID                 int64                    `json:"id"`
	Name               string                   `json:"name"`
	Description        *string                  `json:"description"`
	Image              *string                  `json:"image"`
	CreatedAt          string                   `json:"createdAt"`
	PublishedAt        *string                  `json:"publishedAt"`
	Status             RecipeStatus             `json:"status"`
	Author             RecipeAuthor             `json:"author"`
	BaseServings       int                      `json:"baseServings"`
	CookingTimeMinutes *int                     `json:"cookingTimeMinutes"`
	CategoryValues     map[string]CategoryValue `json:"categoryValues"`
	Ingredients        []IngredientWithAmount   `json:"ingredients"`
	Steps              []string                 `json:"steps"`
	TotalCalories      *float64                 `json:"totalCalories"`
	AverageRating      float64                  `json:"averageRating"`
	RatingCount        int                      `json:"ratingCount"`
}

// Ingredient is a dictionary entry, independent of any recipe.
type Ingredient struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	NameEng        *string  `json:"nameEng"`
	EnergyKcal100g *float64 `json:"energyKcal100g"`
}

// User is the admin-facing account representation.
type User struct {
	ID               int64    `json:"id"`
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	Roles            []string `json:"roles"`
	RegistrationDate string   `json:"registrationDate"`
	LastLoginAt      *string  `json:"lastLoginAt"`
	Blocked          bool     `json:"blocked"`
}

// FeedbackTopic classifies a feedback ticket.
type FeedbackTopic string

const (
	TopicIngredient FeedbackTopic = "INGREDIENT"
	TopicCategory   FeedbackTopic = "CATEGORY"
	TopicBug        FeedbackTopic = "BUG"
	TopicIdea       FeedbackTopic = "IDEA"
	TopicComplaint  FeedbackTopic = "COMPLAINT"
	TopicOther      FeedbackTopic = "OTHER"
)

// FeedbackStatus is the processing state of a feedback ticket.
type FeedbackStatus string

const (
	FeedbackNew        FeedbackStatus = "NEW"
	FeedbackInProgress FeedbackStatus = "IN_PROGRESS"
	FeedbackResolved   FeedbackStatus = "RESOLVED"
	FeedbackRejected   FeedbackStatus = "REJECTED"
)

// Feedback is a user-submitted ticket as seen in the admin panel.
type Feedback struct {
	ID        int64          `json:"id"`
	Email     string         `json:"email"`
	Topic     FeedbackTopic  `json:"topic"`
	Message   string         `json:"message"`
	Status    FeedbackStatus `json:"status"`
	CreatedAt string         `json:"createdAt"`
}

// AuditEntry is one row of the admin audit log. Status is only populated
// for recipe entities.
type AuditEntry struct {
	ID          int64   `json:"id"`
	AdminEmail  string  `json:"adminEmail"`
	ActionType  string  `json:"actionType"`
	EntityType  string  `json:"entityType"`
	Status      *string `json:"status"`
	EntityID    int64   `json:"entityId"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"createdAt"`
}

// CategoryStat is a popular-category row in platform statistics.
type CategoryStat struct {
	CategoryValueName string `json:"categoryValueName"`
	RecipeCount       int64  `json:"recipeCount"`
}

// AuthorStat is a top-author row in platform statistics.
type AuthorStat struct {
	AuthorID    int64  `json:"authorId"`
	Username    string `json:"username"`
	RecipeCount int64  `json:"recipeCount"`
}

// UserRating ranks a user by the average rating of their recipes.
type UserRating struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username"`
	AverageRating float64 `json:"averageRating"`
	RecipeCount   int64   `json:"recipeCount"`
}

// Statistics aggregates platform-wide counters for the admin dashboard.
type Statistics struct {
	TotalUsers             int64          `json:"totalUsers"`
	TotalRecipes           int64          `json:"totalRecipes"`
	TotalIngredients       int64          `json:"totalIngredients"`
	PopularCategoriesValue []CategoryStat `json:"popularCategoriesValue"`
	TopAuthors             []AuthorStat   `json:"topAuthors"`
}

// Page is the server's paged-list envelope. Number is the zero-based page
// index of this page.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

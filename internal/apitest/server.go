// Package apitest hosts an in-memory stand-in for the CookNet platform
// API. Client tests and the end-to-end suite run against it instead of a
// deployed backend. It covers the surface the client consumes: auth with
// JWT access tokens and rotating refresh tokens, recipes with moderation
// and rating, favorites, dictionaries, feedback, image upload and the
// admin panels.
package apitest

import (
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"cooknet-client/internal/types"
)

// Server holds the fake platform's state. All maps are guarded by mu;
// handlers are small enough that a single lock is fine.
type Server struct {
	engine *gin.Engine

	jwtSecret []byte
	accessTTL time.Duration

	mu            sync.Mutex
	nextID        int64
	users         map[int64]*userRecord
	recipes       map[int64]*types.Recipe
	favorites     map[int64]map[int64]bool
	ratings       map[int64]map[int64]int
	ingredients   map[int64]types.Ingredient
	units         []types.Unit
	catTypes      map[int64]types.CategoryType
	catValues     map[int64]types.CategoryValue
	feedback      map[int64]*types.Feedback
	audit         []types.AuditEntry
	refreshTokens map[string]int64

	refreshCalls int
}

type userRecord struct {
	ID               int64
	Username         string
	Email            string
	PasswordHash     []byte
	Roles            []string
	Blocked          bool
	RegistrationDate string
	LastLoginAt      *string
}

// Option customizes the fake server.
type Option func(*Server)

// WithAccessTTL sets the lifetime of minted access tokens. Short TTLs let
// tests exercise the expiry path without sleeping long.
func WithAccessTTL(d time.Duration) Option {
	return func(s *Server) { s.accessTTL = d }
}

// NewServer creates a fake platform seeded with the standard fixtures.
func NewServer(opts ...Option) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		jwtSecret:     []byte("apitest-secret"),
		accessTTL:     time.Hour,
		users:         make(map[int64]*userRecord),
		recipes:       make(map[int64]*types.Recipe),
		favorites:     make(map[int64]map[int64]bool),
		ratings:       make(map[int64]map[int64]int),
		ingredients:   make(map[int64]types.Ingredient),
		catTypes:      make(map[int64]types.CategoryType),
		catValues:     make(map[int64]types.CategoryValue),
		feedback:      make(map[int64]*types.Feedback),
		refreshTokens: make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	s.registerRoutes(engine)
	s.engine = engine
	return s
}

// Router returns the gin engine, ready to be wrapped in httptest.NewServer.
func (s *Server) Router() *gin.Engine {
	return s.engine
}

// RefreshCalls reports how many times the refresh-token endpoint has been
// hit, for asserting single-flight behaviour.
func (s *Server) RefreshCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCalls
}

func (s *Server) registerRoutes(r *gin.Engine) {
	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", s.handleLogin)
		auth.POST("/register", s.handleRegister)
		auth.POST("/refresh-token", s.handleRefreshToken)
	}

	// Public dictionaries
	api.GET("/ingredients/all", s.handleIngredientsAll)
	api.GET("/units", s.handleUnits)
	api.GET("/category-type", s.handleCategoryTypes)
	api.GET("/category-value", s.handleCategoryValues)

	api.POST("/feedback", s.handleSubmitFeedback)

	recipes := api.Group("/recipes")
	{
		recipes.GET("/search", s.handleSearch)
		recipes.POST("/search/by-ingredients", s.handleSearchByIngredients)
		recipes.GET("/my/recipes", s.requireAuth(), s.handleMyRecipes)
		recipes.GET("/pending", s.requireAuth(types.RoleModerator), s.handlePendingRecipes)
		recipes.GET("/:id", s.handleGetRecipe)
		recipes.POST("", s.requireAuth(), s.handleCreateRecipe)
		recipes.PUT("/:id", s.requireAuth(), s.handleUpdateRecipe)
		recipes.DELETE("/:id", s.requireAuth(), s.handleDeleteRecipe)
		recipes.PATCH("/:id/send-to-moderation", s.requireAuth(), s.handleTransition(types.StatusPending))
		recipes.PATCH("/:id/approve", s.requireAuth(types.RoleModerator), s.handleTransition(types.StatusApproved))
		recipes.PATCH("/:id/reject", s.requireAuth(types.RoleModerator), s.handleTransition(types.StatusRejected))
		recipes.POST("/:id/rate", s.requireAuth(), s.handleRate)
	}

	favorites := api.Group("/favorites", s.requireAuth())
	{
		favorites.GET("", s.handleFavorites)
		favorites.POST("/:id", s.handleAddFavorite)
		favorites.DELETE("/:id", s.handleRemoveFavorite)
	}

	api.POST("/images/upload", s.requireAuth(), s.handleImageUpload)

	admin := api.Group("/admin", s.requireAuth(types.RoleAdmin))
	{
		admin.GET("/users", s.handleAdminUsers)
		admin.GET("/users/filter", s.handleAdminFilterUsers)
		admin.GET("/users/rating", s.handleAdminUserRatings)
		admin.GET("/users/by_email/:email", s.handleAdminUserByEmail)
		admin.PUT("/users/:id/roles", s.handleAdminUpdateRoles)
		admin.PUT("/users/:id/block", s.handleAdminBlockUser)
		admin.DELETE("/users/:id", s.handleAdminDeleteUser)

		admin.GET("/statistics", s.handleAdminStatistics)
		admin.GET("/audit", s.handleAdminAudit)
		admin.GET("/audit/filter", s.handleAdminAuditFilter)

		admin.GET("/ingredients", s.handleAdminIngredients)
		admin.GET("/ingredients/page", s.handleAdminIngredientsPage)
		admin.POST("/ingredients", s.handleAdminCreateIngredient)
		admin.PUT("/ingredients/:id", s.handleAdminUpdateIngredient)
		admin.DELETE("/ingredients/:id", s.handleAdminDeleteIngredient)

		admin.GET("/categories-types", s.handleAdminCategoryTypes)
		admin.POST("/categories-types", s.handleAdminCreateCategoryType)
		admin.PUT("/categories-types/:id", s.handleAdminUpdateCategoryType)
		admin.DELETE("/categories-types/:id", s.handleAdminDeleteCategoryType)

		admin.GET("/category-values", s.handleAdminCategoryValuesList)
		admin.POST("/category-values", s.handleAdminCreateCategoryValue)
		admin.PUT("/category-values/:id", s.handleAdminUpdateCategoryValue)
		admin.DELETE("/category-values/:id", s.handleAdminDeleteCategoryValue)

		admin.GET("/feedback", s.handleAdminFeedback)
		admin.PUT("/feedback/:id/status", s.handleAdminFeedbackStatus)
	}
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05")
}

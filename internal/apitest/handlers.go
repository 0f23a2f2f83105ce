package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cooknet-client/internal/types"
)

func (s *Server) handleSearch(c *gin.Context) {
	name := strings.ToLower(c.Query("name"))
	ingredient := strings.ToLower(c.Query("ingredient"))

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []types.Recipe
	for _, r := range s.sortedRecipes() {
		if r.Status != types.StatusApproved {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(r.Name), name) {
			continue
		}
		if ingredient != "" && !recipeUsesIngredientName(r, ingredient) {
			continue
		}
		matched = append(matched, *r)
	}

	c.JSON(http.StatusOK, types.Page[types.Recipe]{
		Content:       matched,
		TotalPages:    1,
		TotalElements: int64(len(matched)),
		Size:          len(matched),
		Number:        0,
	})
}

func (s *Server) handleSearchByIngredients(c *gin.Context) {
	var req types.SearchByIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []types.Recipe{}
	for _, r := range s.sortedRecipes() {
		if r.Status != types.StatusApproved {
			continue
		}
		if recipeHasAllIngredients(r, req.IngredientIDs) {
			matched = append(matched, *r)
		}
	}
	c.JSON(http.StatusOK, matched)
}

func (s *Server) handleGetRecipe(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) handleMyRecipes(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []types.Recipe{}
	for _, r := range s.sortedRecipes() {
		if r.Author.ID == userID {
			out = append(out, *r)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handlePendingRecipes(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []types.Recipe{}
	for _, r := range s.sortedRecipes() {
		if r.Status == types.StatusPending {
			out = append(out, *r)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" || len(req.Steps) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and steps are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.users[currentUserID(c)]
	recipe := &types.Recipe{
		ID:                 s.id(),
		Name:               req.Name,
		CreatedAt:          now(),
		Status:             types.StatusDraft,
		Author:             types.RecipeAuthor{ID: user.ID, Username: user.Username},
		BaseServings:       req.BaseServings,
		CookingTimeMinutes: req.CookingTimeMinutes,
		Image:              req.Image,
		CategoryValues:     s.resolveCategoryValues(req.CategoryValueIDs),
		Ingredients:        s.resolveIngredients(req.Ingredients),
		Steps:              req.Steps,
	}
	if req.Description != "" {
		recipe.Description = &req.Description
	}
	s.recipes[recipe.ID] = recipe

	c.JSON(http.StatusCreated, recipe)
}

func (s *Server) handleUpdateRecipe(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recipe, ok := s.recipes[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	if recipe.Author.ID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the recipe author"})
		return
	}

	recipe.Name = req.Name
	recipe.Description = req.Description
	recipe.Image = req.Image
	recipe.BaseServings = req.BaseServings
	recipe.CookingTimeMinutes = req.CookingTimeMinutes
	recipe.Steps = req.Steps
	if req.CategoryValueIDs != nil {
		recipe.CategoryValues = s.resolveCategoryValues(req.CategoryValueIDs)
	}
	if req.Ingredients != nil {
		recipe.Ingredients = s.resolveIngredients(req.Ingredients)
	}
	// Any edit sends the recipe back through moderation.
	recipe.Status = types.StatusDraft

	c.JSON(http.StatusOK, recipe)
}

func (s *Server) handleDeleteRecipe(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recipe, ok := s.recipes[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	user := s.users[currentUserID(c)]
	if recipe.Author.ID != user.ID && !hasAnyRole(user.Roles, []string{types.RoleAdmin}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the recipe author"})
		return
	}
	delete(s.recipes, id)
	c.Status(http.StatusNoContent)
}

// handleTransition builds a moderation transition handler for the target
// status. Allowed moves mirror the platform: DRAFT->PENDING by the author,
// PENDING->APPROVED|REJECTED by a moderator.
func (s *Server) handleTransition(target types.RecipeStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		recipe, ok := s.recipes[id]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}

		switch target {
		case types.StatusPending:
			if recipe.Status != types.StatusDraft && recipe.Status != types.StatusRejected {
				c.JSON(http.StatusConflict, gin.H{"error": "recipe is not a draft"})
				return
			}
		case types.StatusApproved, types.StatusRejected:
			if recipe.Status != types.StatusPending {
				c.JSON(http.StatusConflict, gin.H{"error": "recipe is not pending moderation"})
				return
			}
		}

		recipe.Status = target
		if target == types.StatusApproved {
			ts := now()
			recipe.PublishedAt = &ts
		}
		statusStr := string(target)
		s.appendAudit(c, "UPDATE", "RECIPE", recipe.ID, "moderation transition", &statusStr)
		c.JSON(http.StatusOK, recipe)
	}
}

func (s *Server) handleRate(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	var req types.RateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Score < 1 || req.Score > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "score must be between 1 and 5"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recipe, ok := s.recipes[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	userID := currentUserID(c)
	if s.ratings[id] == nil {
		s.ratings[id] = make(map[int64]int)
	}
	s.ratings[id][userID] = req.Score

	total := 0
	for _, score := range s.ratings[id] {
		total += score
	}
	recipe.RatingCount = len(s.ratings[id])
	recipe.AverageRating = float64(total) / float64(recipe.RatingCount)

	c.JSON(http.StatusOK, recipe)
}

func (s *Server) handleFavorites(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []types.Recipe{}
	for _, r := range s.sortedRecipes() {
		if s.favorites[userID][r.ID] {
			out = append(out, *r)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleAddFavorite(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	if s.favorites[userID] == nil {
		s.favorites[userID] = make(map[int64]bool)
	}
	s.favorites[userID][id] = true
	c.Status(http.StatusCreated)
}

func (s *Server) handleRemoveFavorite(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.favorites[userID], id)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSubmitFeedback(c *gin.Context) {
	var req types.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ticket := &types.Feedback{
		ID:        s.id(),
		Email:     req.Email,
		Topic:     req.Topic,
		Message:   req.Message,
		Status:    types.FeedbackNew,
		CreatedAt: now(),
	}
	s.feedback[ticket.ID] = ticket
	c.JSON(http.StatusCreated, ticket)
}

func (s *Server) handleImageUpload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image field is required"})
		return
	}
	// The fake never persists files; a unique relative URL is enough for
	// the client contract.
	c.JSON(http.StatusOK, gin.H{
		"imageUrl": "/uploads/recipes/" + uuid.NewString() + "_" + file.Filename,
	})
}

func (s *Server) handleIngredientsAll(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.sortedIngredients())
}

func (s *Server) handleUnits(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.units)
}

func (s *Server) handleCategoryTypes(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.sortedCategoryTypes())
}

func (s *Server) handleCategoryValues(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.sortedCategoryValues())
}

// --- helpers (callers hold mu) ---

func (s *Server) sortedRecipes() []*types.Recipe {
	out := make([]*types.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) sortedIngredients() []types.Ingredient {
	out := make([]types.Ingredient, 0, len(s.ingredients))
	for _, ing := range s.ingredients {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) sortedCategoryTypes() []types.CategoryType {
	out := make([]types.CategoryType, 0, len(s.catTypes))
	for _, ct := range s.catTypes {
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) sortedCategoryValues() []types.CategoryValue {
	out := make([]types.CategoryValue, 0, len(s.catValues))
	for _, cv := range s.catValues {
		out = append(out, cv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) resolveCategoryValues(ids []int64) map[string]types.CategoryValue {
	out := make(map[string]types.CategoryValue)
	for _, id := range ids {
		if cv, ok := s.catValues[id]; ok {
			out[cv.TypeName] = cv
		}
	}
	return out
}

func (s *Server) resolveIngredients(reqs []types.RecipeIngredientRequest) []types.IngredientWithAmount {
	out := make([]types.IngredientWithAmount, 0, len(reqs))
	for _, r := range reqs {
		ing, ok := s.ingredients[r.IngredientID]
		if !ok {
			continue
		}
		unit := types.Unit{}
		for _, u := range s.units {
			if u.ID != nil && *u.ID == r.UnitID {
				unit = u
				break
			}
		}
		id := ing.ID
		amount := r.Amount
		out = append(out, types.IngredientWithAmount{
			ID:             &id,
			Name:           ing.Name,
			NameEng:        ing.NameEng,
			EnergyKcal100g: ing.EnergyKcal100g,
			Amount:         &amount,
			Unit:           unit,
		})
	}
	return out
}

func recipeUsesIngredientName(r *types.Recipe, nameLower string) bool {
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), nameLower) {
			return true
		}
	}
	return false
}

func recipeHasAllIngredients(r *types.Recipe, ids []int64) bool {
	have := make(map[int64]bool, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing.ID != nil {
			have[*ing.ID] = true
		}
	}
	for _, id := range ids {
		if !have[id] {
			return false
		}
	}
	return true
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

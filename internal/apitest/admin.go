package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cooknet-client/internal/types"
)

func (s *Server) handleAdminUsers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.userDTOs(nil))
}

func (s *Server) handleAdminFilterUsers(c *gin.Context) {
	role := c.Query("role")
	email := strings.ToLower(c.Query("email"))
	blockedParam := c.Query("blocked")

	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, s.userDTOs(func(u *userRecord) bool {
		if role != "" && !hasAnyRole(u.Roles, []string{role}) {
			return false
		}
		if email != "" && !strings.Contains(strings.ToLower(u.Email), email) {
			return false
		}
		if blockedParam != "" {
			want, err := strconv.ParseBool(blockedParam)
			if err != nil || u.Blocked != want {
				return false
			}
		}
		return true
	}))
}

func (s *Server) handleAdminUserByEmail(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.findUserByEmail(c.Param("email"))
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, userDTO(user))
}

func (s *Server) handleAdminUpdateRoles(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req types.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	user.Roles = req.Roles
	s.appendAudit(c, "UPDATE", "USER", id, "roles changed", nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAdminBlockUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req types.BlockUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	user.Blocked = req.Blocked
	s.appendAudit(c, "UPDATE", "USER", id, "blocked flag changed", nil)
	c.JSON(http.StatusOK, userDTO(user))
}

func (s *Server) handleAdminDeleteUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	delete(s.users, id)
	s.appendAudit(c, "DELETE", "USER", id, "user removed", nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAdminUserRatings(c *gin.Context) {
	page, size := pageParams(c, 0, 5)

	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[int64]*types.UserRating)
	for _, r := range s.recipes {
		entry := totals[r.Author.ID]
		if entry == nil {
			entry = &types.UserRating{ID: r.Author.ID, Username: r.Author.Username}
			totals[r.Author.ID] = entry
		}
		entry.RecipeCount++
		entry.AverageRating += r.AverageRating
	}

	ranked := make([]types.UserRating, 0, len(totals))
	for _, entry := range totals {
		entry.AverageRating /= float64(entry.RecipeCount)
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].AverageRating > ranked[j].AverageRating })

	c.JSON(http.StatusOK, paginate(ranked, page, size))
}

func (s *Server) handleAdminStatistics(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int64)
	for _, r := range s.recipes {
		for _, cv := range r.CategoryValues {
			counts[cv.CategoryValue]++
		}
	}
	popular := make([]types.CategoryStat, 0, len(counts))
	for name, n := range counts {
		popular = append(popular, types.CategoryStat{CategoryValueName: name, RecipeCount: n})
	}
	sort.Slice(popular, func(i, j int) bool { return popular[i].RecipeCount > popular[j].RecipeCount })

	authors := make(map[int64]*types.AuthorStat)
	for _, r := range s.recipes {
		st := authors[r.Author.ID]
		if st == nil {
			st = &types.AuthorStat{AuthorID: r.Author.ID, Username: r.Author.Username}
			authors[r.Author.ID] = st
		}
		st.RecipeCount++
	}
	top := make([]types.AuthorStat, 0, len(authors))
	for _, st := range authors {
		top = append(top, *st)
	}
	sort.Slice(top, func(i, j int) bool { return top[i].RecipeCount > top[j].RecipeCount })

	c.JSON(http.StatusOK, types.Statistics{
		TotalUsers:             int64(len(s.users)),
		TotalRecipes:           int64(len(s.recipes)),
		TotalIngredients:       int64(len(s.ingredients)),
		PopularCategoriesValue: popular,
		TopAuthors:             top,
	})
}

func (s *Server) handleAdminAudit(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.audit)
}

func (s *Server) handleAdminAuditFilter(c *gin.Context) {
	actionType := c.Query("actionType")
	entityType := c.Query("entityType")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []types.AuditEntry{}
	for _, entry := range s.audit {
		if actionType != "" && entry.ActionType != actionType {
			continue
		}
		if entityType != "" && entry.EntityType != entityType {
			continue
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleAdminIngredients(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.sortedIngredients())
}

func (s *Server) handleAdminIngredientsPage(c *gin.Context) {
	name := strings.ToLower(c.Query("name"))
	page, size := pageParams(c, 0, 10)

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []types.Ingredient
	for _, ing := range s.sortedIngredients() {
		if name != "" && !strings.Contains(strings.ToLower(ing.Name), name) {
			continue
		}
		matched = append(matched, ing)
	}
	c.JSON(http.StatusOK, paginate(matched, page, size))
}

func (s *Server) handleAdminCreateIngredient(c *gin.Context) {
	var req types.IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ing := types.Ingredient{
		ID:             s.id(),
		Name:           req.Name,
		NameEng:        req.NameEng,
		EnergyKcal100g: req.EnergyKcal100g,
	}
	s.ingredients[ing.ID] = ing
	s.appendAudit(c, "CREATE", "INGREDIENT", ing.ID, "ingredient created", nil)
	c.JSON(http.StatusCreated, ing)
}

func (s *Server) handleAdminUpdateIngredient(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return
	}
	var req types.IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ing, ok := s.ingredients[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
		return
	}
	ing.Name = req.Name
	ing.NameEng = req.NameEng
	ing.EnergyKcal100g = req.EnergyKcal100g
	s.ingredients[id] = ing
	s.appendAudit(c, "UPDATE", "INGREDIENT", id, "ingredient updated", nil)
	c.JSON(http.StatusOK, ing)
}

func (s *Server) handleAdminDeleteIngredient(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ingredients[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
		return
	}
	delete(s.ingredients, id)
	s.appendAudit(c, "DELETE", "INGREDIENT", id, "ingredient removed", nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAdminCategoryTypes(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.sortedCategoryTypes())
}

func (s *Server) handleAdminCreateCategoryType(c *gin.Context) {
	var req types.CategoryTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ct := types.CategoryType{ID: s.id(), NameType: req.NameType}
	s.catTypes[ct.ID] = ct
	s.appendAudit(c, "CREATE", "CATEGORY TYPE", ct.ID, "category type created", nil)
	c.JSON(http.StatusCreated, ct)
}

func (s *Server) handleAdminUpdateCategoryType(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category type id"})
		return
	}
	var req types.CategoryTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ct, ok := s.catTypes[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "category type not found"})
		return
	}
	ct.NameType = req.NameType
	s.catTypes[id] = ct
	// Values denormalize the type name.
	for vid, cv := range s.catValues {
		if cv.TypeID == id {
			cv.TypeName = req.NameType
			s.catValues[vid] = cv
		}
	}
	s.appendAudit(c, "UPDATE", "CATEGORY TYPE", id, "category type renamed", nil)
	c.JSON(http.StatusOK, ct)
}

func (s *Server) handleAdminDeleteCategoryType(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category type id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catTypes[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "category type not found"})
		return
	}
	delete(s.catTypes, id)
	for vid, cv := range s.catValues {
		if cv.TypeID == id {
			delete(s.catValues, vid)
		}
	}
	s.appendAudit(c, "DELETE", "CATEGORY TYPE", id, "category type removed", nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAdminCategoryValuesList(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.sortedCategoryValues())
}

func (s *Server) handleAdminCreateCategoryValue(c *gin.Context) {
	var req types.CategoryValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ct, ok := s.catTypes[req.TypeID]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category type"})
		return
	}
	cv := types.CategoryValue{
		ID:            s.id(),
		TypeID:        ct.ID,
		TypeName:      ct.NameType,
		CategoryValue: req.CategoryValue,
	}
	s.catValues[cv.ID] = cv
	s.appendAudit(c, "CREATE", "CATEGORY VALUE", cv.ID, "category value created", nil)
	c.JSON(http.StatusCreated, cv)
}

func (s *Server) handleAdminUpdateCategoryValue(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category value id"})
		return
	}
	var req types.CategoryValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cv, ok := s.catValues[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "category value not found"})
		return
	}
	if ct, ok := s.catTypes[req.TypeID]; ok {
		cv.TypeID = ct.ID
		cv.TypeName = ct.NameType
	}
	cv.CategoryValue = req.CategoryValue
	s.catValues[id] = cv
	s.appendAudit(c, "UPDATE", "CATEGORY VALUE", id, "category value updated", nil)
	c.JSON(http.StatusOK, cv)
}

func (s *Server) handleAdminDeleteCategoryValue(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category value id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catValues[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "category value not found"})
		return
	}
	delete(s.catValues, id)
	s.appendAudit(c, "DELETE", "CATEGORY VALUE", id, "category value removed", nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAdminFeedback(c *gin.Context) {
	page, size := pageParams(c, 0, 10)

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets := make([]types.Feedback, 0, len(s.feedback))
	for _, t := range s.feedback {
		tickets = append(tickets, *t)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })

	c.JSON(http.StatusOK, paginate(tickets, page, size))
}

func (s *Server) handleAdminFeedbackStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}
	var req types.UpdateFeedbackStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.feedback[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		return
	}
	ticket.Status = req.Status
	c.Status(http.StatusNoContent)
}

// appendAudit records an admin/moderation action. Callers hold mu.
func (s *Server) appendAudit(c *gin.Context, action, entity string, entityID int64, description string, status *string) {
	adminEmail := ""
	if u, ok := s.users[currentUserID(c)]; ok {
		adminEmail = u.Email
	}
	s.audit = append(s.audit, types.AuditEntry{
		ID:          int64(len(s.audit) + 1),
		AdminEmail:  adminEmail,
		ActionType:  action,
		EntityType:  entity,
		Status:      status,
		EntityID:    entityID,
		Description: description,
		CreatedAt:   now(),
	})
}

func (s *Server) userDTOs(keep func(*userRecord) bool) []types.User {
	out := []types.User{}
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		u := s.users[id]
		if keep != nil && !keep(u) {
			continue
		}
		out = append(out, userDTO(u))
	}
	return out
}

func userDTO(u *userRecord) types.User {
	return types.User{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Roles:            u.Roles,
		RegistrationDate: u.RegistrationDate,
		LastLoginAt:      u.LastLoginAt,
		Blocked:          u.Blocked,
	}
}

func pageParams(c *gin.Context, defPage, defSize int) (int, int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = defPage
	}
	size, err := strconv.Atoi(c.Query("size"))
	if err != nil || size <= 0 {
		size = defSize
	}
	return page, size
}

func paginate[T any](items []T, page, size int) types.Page[T] {
	start := page * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	totalPages := (len(items) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	return types.Page[T]{
		Content:       items[start:end],
		TotalPages:    totalPages,
		TotalElements: int64(len(items)),
		Size:          size,
		Number:        page,
	}
}

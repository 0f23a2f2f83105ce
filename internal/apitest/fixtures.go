package apitest

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"cooknet-client/internal/types"
)

// Fixture accounts available on every fresh server.
const (
	AdminEmail    = "admin@cooknet.test"
	AdminPassword = "admin-secret"

	ModeratorEmail    = "moderator@cooknet.test"
	ModeratorPassword = "moderator-secret"

	ChefEmail    = "chef@cooknet.test"
	ChefPassword = "chef-secret"

	BlockedEmail    = "blocked@cooknet.test"
	BlockedPassword = "blocked-secret"
)

func (s *Server) seed() {
	s.seedUser("admin", AdminEmail, AdminPassword, []string{types.RoleUser, types.RoleAdmin}, false)
	s.seedUser("moderator", ModeratorEmail, ModeratorPassword, []string{types.RoleUser, types.RoleModerator}, false)
	chef := s.seedUser("chef", ChefEmail, ChefPassword, []string{types.RoleUser}, false)
	s.seedUser("blocked", BlockedEmail, BlockedPassword, []string{types.RoleUser}, true)

	s.units = []types.Unit{
		{ID: i64(1), Code: "g", Label: "grams"},
		{ID: i64(2), Code: "ml", Label: "millilitres"},
		{ID: i64(3), Code: "pcs", Label: "pieces"},
		{ID: i64(4), Code: "tbsp", Label: "tablespoons"},
	}

	beet := s.seedIngredient("beetroot", "beetroot", 43)
	cabbage := s.seedIngredient("cabbage", "cabbage", 25)
	flour := s.seedIngredient("wheat flour", "wheat flour", 364)
	egg := s.seedIngredient("egg", "egg", 155)
	tomato := s.seedIngredient("tomato", "tomato", 18)
	basil := s.seedIngredient("basil", "basil", 23)

	cuisine := s.seedCategoryType("Cuisine")
	meal := s.seedCategoryType("Meal")
	italian := s.seedCategoryValue(cuisine, "Italian")
	ukrainian := s.seedCategoryValue(cuisine, "Ukrainian")
	dinner := s.seedCategoryValue(meal, "Dinner")
	breakfast := s.seedCategoryValue(meal, "Breakfast")

	s.seedRecipe(seedRecipe{
		name:     "Borscht",
		author:   chef,
		status:   types.StatusApproved,
		servings: 4,
		minutes:  90,
		values:   []types.CategoryValue{ukrainian, dinner},
		steps:    []string{"Simmer the broth", "Add beetroot and cabbage", "Season and serve"},
		lines:    []seedLine{{beet, "400", "g"}, {cabbage, "300", "g"}},
		rating:   4.5,
		raters:   2,
	})
	s.seedRecipe(seedRecipe{
		name:     "Margherita Pasta",
		author:   chef,
		status:   types.StatusApproved,
		servings: 2,
		minutes:  30,
		values:   []types.CategoryValue{italian, dinner},
		steps:    []string{"Boil pasta", "Toss with tomato and basil"},
		lines:    []seedLine{{flour, "200", "g"}, {tomato, "150", "g"}, {basil, "10", "g"}},
		rating:   4.0,
		raters:   1,
	})
	s.seedRecipe(seedRecipe{
		name:     "Frittata",
		author:   chef,
		status:   types.StatusApproved,
		servings: 2,
		minutes:  20,
		values:   []types.CategoryValue{italian, breakfast},
		steps:    []string{"Whisk eggs", "Cook on low heat"},
		lines:    []seedLine{{egg, "4", "pcs"}, {tomato, "100", "g"}},
	})
	s.seedRecipe(seedRecipe{
		name:     "Cabbage Pie",
		author:   chef,
		status:   types.StatusDraft,
		servings: 6,
		minutes:  60,
		values:   []types.CategoryValue{ukrainian, dinner},
		steps:    []string{"Make the dough", "Fill and bake"},
		lines:    []seedLine{{flour, "300", "g"}, {cabbage, "500", "g"}, {egg, "2", "pcs"}},
	})
	s.seedRecipe(seedRecipe{
		name:     "Beet Salad",
		author:   chef,
		status:   types.StatusPending,
		servings: 2,
		minutes:  15,
		values:   []types.CategoryValue{ukrainian},
		steps:    []string{"Boil and dice the beetroot", "Dress"},
		lines:    []seedLine{{beet, "250", "g"}},
	})
}

func (s *Server) seedUser(username, email, password string, roles []string, blocked bool) *userRecord {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("apitest: hash fixture password: %v", err))
	}
	u := &userRecord{
		ID:               s.id(),
		Username:         username,
		Email:            email,
		PasswordHash:     hash,
		Roles:            roles,
		Blocked:          blocked,
		RegistrationDate: now(),
	}
	s.users[u.ID] = u
	return u
}

func (s *Server) seedIngredient(name, nameEng string, kcal float64) types.Ingredient {
	ing := types.Ingredient{
		ID:             s.id(),
		Name:           name,
		NameEng:        &nameEng,
		EnergyKcal100g: &kcal,
	}
	s.ingredients[ing.ID] = ing
	return ing
}

func (s *Server) seedCategoryType(name string) types.CategoryType {
	ct := types.CategoryType{ID: s.id(), NameType: name}
	s.catTypes[ct.ID] = ct
	return ct
}

func (s *Server) seedCategoryValue(ct types.CategoryType, value string) types.CategoryValue {
	cv := types.CategoryValue{
		ID:            s.id(),
		TypeID:        ct.ID,
		TypeName:      ct.NameType,
		CategoryValue: value,
	}
	s.catValues[cv.ID] = cv
	return cv
}

type seedLine struct {
	ingredient types.Ingredient
	amount     string
	unitCode   string
}

type seedRecipe struct {
	name     string
	author   *userRecord
	status   types.RecipeStatus
	servings int
	minutes  int
	values   []types.CategoryValue
	steps    []string
	lines    []seedLine
	rating   float64
	raters   int
}

func (s *Server) seedRecipe(def seedRecipe) *types.Recipe {
	values := make(map[string]types.CategoryValue, len(def.values))
	for _, cv := range def.values {
		values[cv.TypeName] = cv
	}
	lines := make([]types.IngredientWithAmount, 0, len(def.lines))
	var total float64
	for _, l := range def.lines {
		amount := l.amount
		lines = append(lines, types.IngredientWithAmount{
			ID:             &l.ingredient.ID,
			Name:           l.ingredient.Name,
			NameEng:        l.ingredient.NameEng,
			EnergyKcal100g: l.ingredient.EnergyKcal100g,
			Amount:         &amount,
			Unit:           s.unitByCode(l.unitCode),
		})
		if l.ingredient.EnergyKcal100g != nil && l.unitCode == "g" {
			var grams float64
			fmt.Sscanf(l.amount, "%f", &grams)
			total += *l.ingredient.EnergyKcal100g * grams / 100
		}
	}

	minutes := def.minutes
	r := &types.Recipe{
		ID:                 s.id(),
		Name:               def.name,
		CreatedAt:          now(),
		Status:             def.status,
		Author:             types.RecipeAuthor{ID: def.author.ID, Username: def.author.Username},
		BaseServings:       def.servings,
		CookingTimeMinutes: &minutes,
		CategoryValues:     values,
		Ingredients:        lines,
		Steps:              def.steps,
		TotalCalories:      &total,
		AverageRating:      def.rating,
		RatingCount:        def.raters,
	}
	if def.status == types.StatusApproved {
		ts := now()
		r.PublishedAt = &ts
	}
	s.recipes[r.ID] = r
	return r
}

func (s *Server) unitByCode(code string) types.Unit {
	for _, u := range s.units {
		if u.Code == code {
			return u
		}
	}
	return types.Unit{Code: code, Label: code}
}

func i64(v int64) *int64 { return &v }

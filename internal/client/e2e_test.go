package client

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cooknet-client/internal/apitest"
	"cooknet-client/internal/session"
	"cooknet-client/internal/types"
)

// newPlatform spins up the in-memory platform and a client wired to it.
func newPlatform(t *testing.T, opts ...apitest.Option) (*apitest.Server, *Client) {
	t.Helper()
	srv := apitest.NewServer(opts...)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, New(ts.URL, session.NewMemoryStore())
}

func login(t *testing.T, c *Client, email, password string) *session.Credential {
	t.Helper()
	cred, err := c.Login(context.Background(), email, password)
	require.NoError(t, err)
	return cred
}

func TestLoginStoresSession(t *testing.T) {
	_, c := newPlatform(t)

	cred := login(t, c, apitest.ChefEmail, apitest.ChefPassword)
	assert.Equal(t, "chef", cred.Username)
	assert.Equal(t, apitest.ChefEmail, cred.Email)
	assert.Equal(t, []string{types.RoleUser}, cred.Roles)
	assert.NotEmpty(t, cred.AccessToken)
	assert.NotEmpty(t, cred.RefreshToken)

	stored, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, cred, stored)

	require.NoError(t, c.Logout())
	stored, err = c.Current()
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	_, c := newPlatform(t)
	_, err := c.Login(context.Background(), apitest.ChefEmail, "wrong")
	assert.True(t, IsStatus(err, 401))
}

func TestLoginRejectsBlockedUser(t *testing.T) {
	_, c := newPlatform(t)
	_, err := c.Login(context.Background(), apitest.BlockedEmail, apitest.BlockedPassword)
	assert.True(t, IsStatus(err, 403))
}

func TestRegisterThenLogin(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()

	resp, err := c.Register(ctx, types.RegisterRequest{
		Username: "newcook",
		Email:    "newcook@cooknet.test",
		Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, "newcook", resp.Username)

	cred := login(t, c, "newcook@cooknet.test", "longenough")
	assert.Equal(t, []string{types.RoleUser}, cred.Roles)

	// Duplicate registration conflicts.
	_, err = c.Register(ctx, types.RegisterRequest{
		Username: "other",
		Email:    "newcook@cooknet.test",
		Password: "longenough",
	})
	assert.True(t, IsStatus(err, 409))
}

func TestRegisterValidatesLocally(t *testing.T) {
	srv, c := newPlatform(t)
	_, err := c.Register(context.Background(), types.RegisterRequest{
		Username: "x",
		Email:    "not-an-email",
		Password: "short",
	})
	require.Error(t, err)
	// The invalid payload never left the process.
	assert.Zero(t, srv.RefreshCalls())
}

func TestSearchReturnsOnlyApprovedRecipes(t *testing.T) {
	_, c := newPlatform(t)

	page, err := c.SearchRecipes(context.Background(), "", "")
	require.NoError(t, err)
	require.NotEmpty(t, page.Content)
	for _, r := range page.Content {
		assert.Equal(t, types.StatusApproved, r.Status)
	}

	page, err = c.SearchRecipes(context.Background(), "borscht", "")
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Borscht", page.Content[0].Name)

	page, err = c.SearchRecipes(context.Background(), "", "beetroot")
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Borscht", page.Content[0].Name)
}

func TestGetRecipeNotFound(t *testing.T) {
	_, c := newPlatform(t)
	_, err := c.GetRecipe(context.Background(), 9999)
	assert.True(t, IsNotFound(err))
}

func TestRecipeLifecycle(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()
	login(t, c, apitest.ChefEmail, apitest.ChefPassword)

	ingredients, err := c.Ingredients(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, ingredients)

	created, err := c.CreateRecipe(ctx, types.CreateRecipeRequest{
		Name:         "Beet Smoothie",
		BaseServings: 1,
		Ingredients: []types.RecipeIngredientRequest{
			{IngredientID: ingredients[0].ID, Amount: "150", UnitID: 1},
		},
		Steps: []string{"Blend"},
	})
	require.NoError(t, err)
	assert.Equal(t, types.StatusDraft, created.Status)
	assert.Equal(t, "chef", created.Author.Username)

	// Draft recipes are invisible to search.
	page, err := c.SearchRecipes(ctx, "smoothie", "")
	require.NoError(t, err)
	assert.Empty(t, page.Content)

	mine, err := c.MyRecipes(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(mine))
	for _, r := range mine {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "Beet Smoothie")

	require.NoError(t, c.SendToModeration(ctx, created.ID))

	// Author cannot approve their own recipe.
	err = c.ApproveRecipe(ctx, created.ID)
	assert.True(t, IsStatus(err, 403))

	// The moderator can.
	_, mod := newModeratorClient(t, c)
	require.NoError(t, mod.ApproveRecipe(ctx, created.ID))

	got, err := c.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusApproved, got.Status)
	require.NotNil(t, got.PublishedAt)
}

// newModeratorClient logs a moderator into the same platform the given
// client points at.
func newModeratorClient(t *testing.T, peer *Client) (*session.Credential, *Client) {
	t.Helper()
	mod := New(peer.baseURL, session.NewMemoryStore())
	cred := login(t, mod, apitest.ModeratorEmail, apitest.ModeratorPassword)
	return cred, mod
}

func TestEditResetsRecipeToDraft(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()
	login(t, c, apitest.ChefEmail, apitest.ChefPassword)

	mine, err := c.MyRecipes(ctx)
	require.NoError(t, err)
	var approved *types.Recipe
	for i := range mine {
		if mine[i].Status == types.StatusApproved {
			approved = &mine[i]
			break
		}
	}
	require.NotNil(t, approved)

	updated, err := c.UpdateRecipe(ctx, approved.ID, types.UpdateRecipeRequest{
		Name:         approved.Name + " v2",
		BaseServings: approved.BaseServings,
		Steps:        approved.Steps,
	})
	require.NoError(t, err)
	assert.Equal(t, types.StatusDraft, updated.Status)
}

func TestModerationQueueAndReject(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()

	_, mod := newModeratorClient(t, c)
	pending, err := mod.PendingRecipes(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, pending)
	target := pending[0]

	require.NoError(t, mod.RejectRecipe(ctx, target.ID))

	// Rejecting an already-rejected recipe conflicts.
	err = mod.RejectRecipe(ctx, target.ID)
	assert.True(t, IsStatus(err, 409))

	// Plain users cannot read the queue at all.
	login(t, c, apitest.ChefEmail, apitest.ChefPassword)
	_, err = c.PendingRecipes(ctx)
	assert.True(t, IsStatus(err, 403))
}

func TestRatingUpdatesAverage(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()
	login(t, c, apitest.ChefEmail, apitest.ChefPassword)

	page, err := c.SearchRecipes(ctx, "frittata", "")
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	id := page.Content[0].ID

	require.NoError(t, c.RateRecipe(ctx, id, 5))
	got, err := c.GetRecipe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.AverageRating)
	assert.Equal(t, 1, got.RatingCount)

	// Re-rating replaces the previous score instead of stacking.
	require.NoError(t, c.RateRecipe(ctx, id, 3))
	got, err = c.GetRecipe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.AverageRating)
	assert.Equal(t, 1, got.RatingCount)

	err = c.RateRecipe(ctx, id, 6)
	require.Error(t, err, "score outside 1-5 fails local validation")
}

func TestFavoritesRoundTrip(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()
	login(t, c, apitest.ChefEmail, apitest.ChefPassword)

	page, err := c.SearchRecipes(ctx, "borscht", "")
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	id := page.Content[0].ID

	require.NoError(t, c.AddFavorite(ctx, id))
	favs, err := c.Favorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Borscht", favs[0].Name)

	require.NoError(t, c.RemoveFavorite(ctx, id))
	favs, err = c.Favorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestFeedbackSubmission(t *testing.T) {
	_, c := newPlatform(t)
	err := c.SubmitFeedback(context.Background(), types.FeedbackRequest{
		Email:   "visitor@cooknet.test",
		Topic:   types.TopicIdea,
		Message: "more soups please",
	})
	require.NoError(t, err)
}

func TestImageUpload(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()
	login(t, c, apitest.ChefEmail, apitest.ChefPassword)

	url, err := c.UploadImage(ctx, "borscht.jpg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/recipes/"))
	assert.True(t, strings.HasSuffix(url, "_borscht.jpg"))

	// Relative image paths resolve against the API host.
	resolved := c.ImageURL(&url)
	assert.True(t, strings.HasPrefix(resolved, "http"))
	assert.True(t, strings.HasSuffix(resolved, url))
}

func TestExpiredAccessTokenIsRenewedTransparently(t *testing.T) {
	srv, c := newPlatform(t)
	ctx := context.Background()

	// Plant a session whose access token is already past its exp claim.
	tokens := srv.IssueTokens(apitest.ChefEmail, -time.Minute)
	require.NoError(t, c.Store().Save(&session.Credential{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Email:        apitest.ChefEmail,
		Username:     "chef",
		Roles:        []string{types.RoleUser},
	}))

	mine, err := c.MyRecipes(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, mine)
	assert.Equal(t, 1, srv.RefreshCalls())

	// The rotated pair is persisted; the next call reuses it untouched.
	_, err = c.MyRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.RefreshCalls())
}

func TestRevokedRefreshTokenEndsSession(t *testing.T) {
	srv, c := newPlatform(t)
	ctx := context.Background()

	tokens := srv.IssueTokens(apitest.ChefEmail, -time.Minute)
	require.NoError(t, c.Store().Save(&session.Credential{
		AccessToken:  tokens.AccessToken,
		RefreshToken: "revoked-token",
		Email:        apitest.ChefEmail,
		Username:     "chef",
		Roles:        []string{types.RoleUser},
	}))

	expired := false
	c.onExpired = func() { expired = true }

	_, err := c.MyRecipes(ctx)
	require.Error(t, err)
	assert.True(t, expired)

	cred, err := c.Current()
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestAdminSurface(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()
	login(t, c, apitest.AdminEmail, apitest.AdminPassword)

	users, err := c.AdminUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)

	filtered, err := c.AdminFilterUsers(ctx, types.UserFilter{Role: types.RoleModerator})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "moderator", filtered[0].Username)

	blocked := true
	filtered, err = c.AdminFilterUsers(ctx, types.UserFilter{Blocked: &blocked})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, apitest.BlockedEmail, filtered[0].Email)

	byEmail, err := c.AdminUserByEmail(ctx, apitest.ChefEmail)
	require.NoError(t, err)
	assert.Equal(t, "chef", byEmail.Username)

	stats, err := c.AdminStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalUsers)
	assert.NotEmpty(t, stats.TopAuthors)

	ratings, err := c.AdminTopUsersByRating(ctx, 0, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, ratings.Content)
}

func TestAdminRoleAndBlockChangesAreAudited(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()
	login(t, c, apitest.AdminEmail, apitest.AdminPassword)

	chef, err := c.AdminUserByEmail(ctx, apitest.ChefEmail)
	require.NoError(t, err)

	require.NoError(t, c.AdminUpdateUserRoles(ctx, chef.ID, []string{types.RoleUser, types.RoleModerator}))
	require.NoError(t, c.AdminSetUserBlocked(ctx, chef.ID, true))

	chef, err = c.AdminUserByEmail(ctx, apitest.ChefEmail)
	require.NoError(t, err)
	assert.Contains(t, chef.Roles, types.RoleModerator)
	assert.True(t, chef.Blocked)

	entries, err := c.AdminFilterAuditLogs(ctx, types.AuditFilter{EntityType: "USER"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, apitest.AdminEmail, entries[0].AdminEmail)
}

func TestAdminDictionaryCRUDInvalidatesCache(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()
	login(t, c, apitest.AdminEmail, apitest.AdminPassword)

	before, err := c.Ingredients(ctx)
	require.NoError(t, err)

	created, err := c.AdminCreateIngredient(ctx, types.IngredientRequest{Name: "dill"})
	require.NoError(t, err)
	assert.Equal(t, "dill", created.Name)

	// The public dictionary read sees the new entry immediately because the
	// mutation dropped the cached copy.
	after, err := c.Ingredients(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)

	require.NoError(t, c.AdminDeleteIngredient(ctx, created.ID))
}

func TestAdminTaxonomyManagement(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()
	login(t, c, apitest.AdminEmail, apitest.AdminPassword)

	ct, err := c.AdminCreateCategoryType(ctx, "Season")
	require.NoError(t, err)

	cv, err := c.AdminCreateCategoryValue(ctx, types.CategoryValueRequest{
		TypeID:        ct.ID,
		CategoryValue: "Summer",
	})
	require.NoError(t, err)
	assert.Equal(t, "Season", cv.TypeName)

	// Renaming the type is reflected on its values.
	_, err = c.AdminUpdateCategoryType(ctx, ct.ID, "Time of Year")
	require.NoError(t, err)
	values, err := c.AdminCategoryValues(ctx)
	require.NoError(t, err)
	var found bool
	for _, v := range values {
		if v.ID == cv.ID {
			found = true
			assert.Equal(t, "Time of Year", v.TypeName)
		}
	}
	assert.True(t, found)

	// Deleting the type cascades to its values.
	require.NoError(t, c.AdminDeleteCategoryType(ctx, ct.ID))
	values, err = c.AdminCategoryValues(ctx)
	require.NoError(t, err)
	for _, v := range values {
		assert.NotEqual(t, cv.ID, v.ID)
	}
}

func TestAdminFeedbackWorkflow(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()

	require.NoError(t, c.SubmitFeedback(ctx, types.FeedbackRequest{
		Email:   "visitor@cooknet.test",
		Topic:   types.TopicBug,
		Message: "search is slow",
	}))

	login(t, c, apitest.AdminEmail, apitest.AdminPassword)
	page, err := c.AdminFeedbackTickets(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	ticket := page.Content[0]
	assert.Equal(t, types.FeedbackNew, ticket.Status)

	require.NoError(t, c.AdminUpdateFeedbackStatus(ctx, ticket.ID, types.FeedbackResolved))
	page, err = c.AdminFeedbackTickets(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, types.FeedbackResolved, page.Content[0].Status)
}

func TestAdminEndpointsRejectNonAdmins(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()
	login(t, c, apitest.ChefEmail, apitest.ChefPassword)

	_, err := c.AdminUsers(ctx)
	assert.True(t, IsStatus(err, 403))

	_, err = c.AdminStatistics(ctx)
	assert.True(t, IsStatus(err, 403))
}

func TestSearchByIngredients(t *testing.T) {
	_, c := newPlatform(t)
	ctx := context.Background()

	ingredients, err := c.Ingredients(ctx)
	require.NoError(t, err)
	var beet int64
	for _, ing := range ingredients {
		if ing.Name == "beetroot" {
			beet = ing.ID
		}
	}
	require.NotZero(t, beet)

	got, err := c.SearchRecipesByIngredients(ctx, []int64{beet})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Borscht", got[0].Name)
}

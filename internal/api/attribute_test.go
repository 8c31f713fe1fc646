package api_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-api/backend/internal/api"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/testhelpers"
)

func TestAttributesLoginRequired(t *testing.T) {
	env := setupTestRouter(t)

	for _, path := range []string{"/recipe/tags/", "/recipe/ingredients/"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRetrieveTags(t *testing.T) {
	env := setupTestRouter(t)
	user, token := env.createUserAndToken(t, "me@example.com")
	testhelpers.CreateTag(t, env.db, user.ID, "Vegan")
	testhelpers.CreateTag(t, env.db, user.ID, "Dessert")

	w := env.do(t, http.MethodGet, "/recipe/tags/", token, nil)
	requireStatus(t, w, http.StatusOK)

	tags := decode[[]api.AttributeResponse](t, w)
	require.Len(t, tags, 2)
	assert.Equal(t, "Vegan", tags[0].Name)
	assert.Equal(t, "Dessert", tags[1].Name)
}

func TestTagsLimitedToUser(t *testing.T) {
	env := setupTestRouter(t)
	user, token := env.createUserAndToken(t, "me@example.com")
	other := testhelpers.CreateUser(t, env.db, "other@example.com", "testpass123")
	testhelpers.CreateTag(t, env.db, other.ID, "Fruity")
	tag := testhelpers.CreateTag(t, env.db, user.ID, "Comfort Food")

	w := env.do(t, http.MethodGet, "/recipe/tags/", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, []api.AttributeResponse{{ID: tag.ID, Name: "Comfort Food"}}, decode[[]api.AttributeResponse](t, w))
}

func TestCreateTag(t *testing.T) {
	env := setupTestRouter(t)
	user, token := env.createUserAndToken(t, "me@example.com")

	w := env.do(t, http.MethodPost, "/recipe/tags/", token, map[string]string{"name": "Test tag"})
	requireStatus(t, w, http.StatusCreated)
	created := decode[api.AttributeResponse](t, w)
	assert.Equal(t, "Test tag", created.Name)

	var tag models.Tag
	require.NoError(t, env.db.First(&tag, created.ID).Error)
	assert.Equal(t, user.ID, tag.UserID)
}

func TestCreateAttributeInvalid(t *testing.T) {
	env := setupTestRouter(t)
	_, token := env.createUserAndToken(t, "me@example.com")

	for _, path := range []string{"/recipe/tags/", "/recipe/ingredients/"} {
		for _, body := range []map[string]string{{"name": ""}, {"name": "   "}, {}, {"name": strings.Repeat("x", 256)}} {
			w := env.do(t, http.MethodPost, path, token, body)
			requireStatus(t, w, http.StatusBadRequest)
			assert.Contains(t, decode[errorBody](t, w).Fields, "name")
		}
	}

	w := env.do(t, http.MethodPost, "/recipe/tags/", token, map[string]string{"name": strings.Repeat("x", 256)})
	assert.Equal(t, []string{"Ensure this field has no more than 255 characters."}, decode[errorBody](t, w).Fields["name"])
}

func TestCreateIngredient(t *testing.T) {
	env := setupTestRouter(t)
	user, token := env.createUserAndToken(t, "me@example.com")

	w := env.do(t, http.MethodPost, "/recipe/ingredients/", token, map[string]string{"name": "Cabbage"})
	requireStatus(t, w, http.StatusCreated)

	var count int64
	require.NoError(t, env.db.Model(&models.Ingredient{}).Where("user_id = ? AND name = ?", user.ID, "Cabbage").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIngredientsLimitedToUser(t *testing.T) {
	env := setupTestRouter(t)
	user, token := env.createUserAndToken(t, "me@example.com")
	other := testhelpers.CreateUser(t, env.db, "other@example.com", "testpass123")
	testhelpers.CreateIngredient(t, env.db, other.ID, "Vinegar")
	mine := testhelpers.CreateIngredient(t, env.db, user.ID, "Tumeric")

	w := env.do(t, http.MethodGet, "/recipe/ingredients/", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, []api.AttributeResponse{{ID: mine.ID, Name: "Tumeric"}}, decode[[]api.AttributeResponse](t, w))
}

func TestAssignedOnlyFilter(t *testing.T) {
	env := setupTestRouter(t)
	user, token := env.createUserAndToken(t, "me@example.com")

	breakfast := testhelpers.CreateTag(t, env.db, user.ID, "Breakfast")
	testhelpers.CreateTag(t, env.db, user.ID, "Lunch")
	eggs := testhelpers.CreateIngredient(t, env.db, user.ID, "Eggs")
	testhelpers.CreateIngredient(t, env.db, user.ID, "Cheese")

	testhelpers.CreateRecipe(t, env.db, user.ID, "Pancakes", []models.Tag{*breakfast}, []models.Ingredient{*eggs})
	testhelpers.CreateRecipe(t, env.db, user.ID, "Porridge", []models.Tag{*breakfast}, []models.Ingredient{*eggs})

	w := env.do(t, http.MethodGet, "/recipe/tags/?assigned_only=1", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, []api.AttributeResponse{{ID: breakfast.ID, Name: "Breakfast"}}, decode[[]api.AttributeResponse](t, w))

	w = env.do(t, http.MethodGet, "/recipe/ingredients/?assigned_only=1", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, []api.AttributeResponse{{ID: eggs.ID, Name: "Eggs"}}, decode[[]api.AttributeResponse](t, w))

	w = env.do(t, http.MethodGet, "/recipe/tags/?assigned_only=0", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, decode[[]api.AttributeResponse](t, w), 2)
}

func TestAssignedOnlyMustBeInteger(t *testing.T) {
	env := setupTestRouter(t)
	_, token := env.createUserAndToken(t, "me@example.com")

	w := env.do(t, http.MethodGet, "/recipe/tags/?assigned_only=yes", token, nil)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Contains(t, decode[errorBody](t, w).Fields, "assigned_only")
}

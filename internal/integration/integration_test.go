package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/api"
	"github.com/pageza/recipe-api/backend/internal/router"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/testhelpers"
)

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupPostgresDatabase(t)

	cfg := &config.Config{
		StorageBackend: "local",
		MediaRoot:      t.TempDir(),
		MediaURL:       "/media/",
		MaxImageBytes:  1 << 20,
	}
	svc := api.Services{
		Users:       service.NewUserService(db),
		Auth:        service.NewAuthService(db, "integration-secret", time.Hour, nil),
		Tags:        service.NewTagService(db),
		Ingredients: service.NewIngredientService(db),
		Recipes:     service.NewRecipeService(db, service.NewLocalImageStore(cfg.MediaRoot, cfg.MediaURL)),
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return router.SetupRouter(cfg, db, svc, logger)
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func (c *client) expect(method, path string, body interface{}, status int, out interface{}) {
	w := c.do(method, path, body)
	require.Equal(c.t, status, w.Code, "%s %s: %s", method, path, w.Body.String())
	if out != nil {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), out))
	}
}

// signup creates an account through the API and returns a client holding its token
func signup(t *testing.T, r *gin.Engine, email string) *client {
	c := &client{t: t, router: r}
	c.expect(http.MethodPost, "/user/create/", map[string]string{
		"email": email, "password": "pw123456", "name": "Cook",
	}, http.StatusCreated, nil)

	var tok api.TokenResponse
	c.expect(http.MethodPost, "/user/token/", map[string]string{
		"email": email, "password": "pw123456",
	}, http.StatusOK, &tok)
	c.token = tok.Token
	return c
}

func TestRecipeLifecycle(t *testing.T) {
	r := setupRouter(t)
	cook := signup(t, r, "a@x.com")

	var vegan, dinner, tofu api.AttributeResponse
	cook.expect(http.MethodPost, "/recipe/tags/", map[string]string{"name": "Vegan"}, http.StatusCreated, &vegan)
	cook.expect(http.MethodPost, "/recipe/tags/", map[string]string{"name": "Dinner"}, http.StatusCreated, &dinner)
	cook.expect(http.MethodPost, "/recipe/ingredients/", map[string]string{"name": "Tofu"}, http.StatusCreated, &tofu)

	var created api.RecipeResponse
	cook.expect(http.MethodPost, "/recipe/recipes/", map[string]interface{}{
		"title":        "T",
		"time_minutes": 5,
		"price":        12.84,
		"tags":         []uint{vegan.ID, dinner.ID},
		"ingredients":  []uint{tofu.ID},
	}, http.StatusCreated, &created)
	assert.Equal(t, "12.84", created.Price.String())

	var plain api.RecipeResponse
	cook.expect(http.MethodPost, "/recipe/recipes/", map[string]interface{}{
		"title": "Plain", "time_minutes": 1, "price": "999.99",
	}, http.StatusCreated, &plain)

	var list []api.RecipeResponse
	cook.expect(http.MethodGet, "/recipe/recipes/", nil, http.StatusOK, &list)
	require.Len(t, list, 2)
	assert.Equal(t, plain.ID, list[0].ID)
	assert.Equal(t, "999.99", list[0].Price.String())

	cook.expect(http.MethodGet, fmt.Sprintf("/recipe/recipes/?tags=%d&ingredients=%d", vegan.ID, tofu.ID), nil, http.StatusOK, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	var assigned []api.AttributeResponse
	cook.expect(http.MethodGet, "/recipe/tags/?assigned_only=1", nil, http.StatusOK, &assigned)
	assert.Equal(t, []api.AttributeResponse{vegan, dinner}, assigned)

	var detail api.RecipeDetailResponse
	cook.expect(http.MethodPatch, fmt.Sprintf("/recipe/recipes/%d/", created.ID), map[string]interface{}{"tags": []uint{dinner.ID}}, http.StatusOK, nil)
	cook.expect(http.MethodGet, fmt.Sprintf("/recipe/recipes/%d/", created.ID), nil, http.StatusOK, &detail)
	assert.Equal(t, []api.AttributeResponse{dinner}, detail.Tags)
	assert.Equal(t, []api.AttributeResponse{tofu}, detail.Ingredients)

	cook.expect(http.MethodPut, fmt.Sprintf("/recipe/recipes/%d/", created.ID), map[string]interface{}{
		"title": "T2", "time_minutes": 6, "price": 1,
	}, http.StatusOK, nil)
	cook.expect(http.MethodGet, fmt.Sprintf("/recipe/recipes/%d/", created.ID), nil, http.StatusOK, &detail)
	assert.Equal(t, "T2", detail.Title)
	assert.Empty(t, detail.Tags)
	assert.Empty(t, detail.Ingredients)
}

func TestRecipesAreIsolatedBetweenUsers(t *testing.T) {
	r := setupRouter(t)
	alice := signup(t, r, "alice@example.com")
	bob := signup(t, r, "bob@example.com")

	var tag api.AttributeResponse
	alice.expect(http.MethodPost, "/recipe/tags/", map[string]string{"name": "Secret"}, http.StatusCreated, &tag)

	var recipe api.RecipeResponse
	alice.expect(http.MethodPost, "/recipe/recipes/", map[string]interface{}{
		"title": "Mine", "time_minutes": 5, "price": 2,
	}, http.StatusCreated, &recipe)

	var list []api.RecipeResponse
	bob.expect(http.MethodGet, "/recipe/recipes/", nil, http.StatusOK, &list)
	assert.Empty(t, list)
	bob.expect(http.MethodGet, fmt.Sprintf("/recipe/recipes/%d/", recipe.ID), nil, http.StatusNotFound, nil)
	bob.expect(http.MethodPost, "/recipe/recipes/", map[string]interface{}{
		"title": "Sneaky", "time_minutes": 5, "price": 2, "tags": []uint{tag.ID},
	}, http.StatusBadRequest, nil)
}

func TestImageUploadIsServed(t *testing.T) {
	r := setupRouter(t)
	cook := signup(t, r, "img@example.com")

	var recipe api.RecipeResponse
	cook.expect(http.MethodPost, "/recipe/recipes/", map[string]interface{}{
		"title": "Pic", "time_minutes": 5, "price": 2,
	}, http.StatusCreated, &recipe)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, 4, 4))))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "pic.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/recipe/recipes/%d/upload-image/", recipe.ID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+cook.token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var uploaded api.RecipeImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))
	require.NotNil(t, uploaded.Image)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, *uploaded.Image, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, img.Bytes(), w.Body.Bytes())
}

func TestHealthAndMetrics(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/api"
	"github.com/pageza/recipe-api/backend/internal/middleware"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/testhelpers"
)

const testImageID = "2f1c6a1e-test"

type testEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	auth      *service.AuthService
	mediaRoot string
}

func setupTestRouter(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDatabase(t)
	mediaRoot := t.TempDir()

	auth := service.NewAuthService(db, "test-secret", time.Hour, nil)
	images := service.NewLocalImageStore(mediaRoot, "/media/")
	svc := api.Services{
		Users:       service.NewUserService(db),
		Auth:        auth,
		Tags:        service.NewTagService(db),
		Ingredients: service.NewIngredientService(db),
		Recipes: service.NewRecipeService(db, images, service.WithImageKeyGenerator(func() string {
			return testImageID
		})),
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(middleware.NoMethod)
	router.Use(middleware.ErrorHandler())
	api.RegisterRoutes(router, svc, 1<<20)

	return &testEnv{router: router, db: db, auth: auth, mediaRoot: mediaRoot}
}

// createUserAndToken inserts a user and issues a token for it
func (e *testEnv) createUserAndToken(t *testing.T, email string) (*models.User, string) {
	user := testhelpers.CreateUser(t, e.db, email, "testpass123")
	token, err := e.auth.GenerateToken(context.Background(), user.ID)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields"`
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

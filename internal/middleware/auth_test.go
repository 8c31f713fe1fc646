package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/service"
)

type resolverFunc func(ctx context.Context, token string) (*models.User, error)

func (f resolverFunc) Resolve(ctx context.Context, token string) (*models.User, error) {
	return f(ctx, token)
}

func staticResolver(users map[string]*models.User) TokenResolver {
	return resolverFunc(func(_ context.Context, token string) (*models.User, error) {
		if u, ok := users[token]; ok {
			return u, nil
		}
		return nil, service.ErrInvalidToken
	})
}

func setupAuthRouter(resolver TokenResolver, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandler())
	handlers := append([]gin.HandlerFunc{AuthMiddleware(resolver)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email, "user_id": c.GetUint(ContextUserIDKey)})
	})
	router.GET("/me", handlers...)
	return router
}

func TestAuthMiddleware(t *testing.T) {
	users := map[string]*models.User{
		"good": {ID: 7, Email: "me@example.com"},
	}
	router := setupAuthRouter(staticResolver(users))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"bearer scheme", "Bearer good", http.StatusOK},
		{"token scheme", "Token good", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"no token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"email":"me@example.com","user_id":7}`, w.Body.String())
			}
		})
	}
}

func TestRequireStaff(t *testing.T) {
	users := map[string]*models.User{
		"staff":   {ID: 1, Email: "admin@example.com", IsStaff: true},
		"regular": {ID: 2, Email: "user@example.com"},
	}
	router := setupAuthRouter(staticResolver(users), RequireStaff())

	for token, status := range map[string]int{"staff": http.StatusOK, "regular": http.StatusForbidden} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, token)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:5173"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

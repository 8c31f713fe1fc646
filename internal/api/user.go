package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-api/backend/internal/metrics"
	"github.com/pageza/recipe-api/backend/internal/middleware"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// UserHandler serves signup, token issuance and the current user's profile
type UserHandler struct {
	users service.IUserService
	auth  service.IAuthService
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(users service.IUserService, auth service.IAuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

// RegisterRoutes mounts the public and authenticated user routes
func (h *UserHandler) RegisterRoutes(public, protected gin.IRouter) {
	public.POST("/user/create/", h.Create)
	public.POST("/user/token/", h.Token)

	protected.GET("/user/me/", h.Me)
	protected.PUT("/user/me/", h.Update)
	protected.PATCH("/user/me/", h.PartialUpdate)
	protected.POST("/user/logout/", h.Logout)
}

// Create registers a new account
func (h *UserHandler) Create(c *gin.Context) {
	var req types.CreateUserRequest
	if err := bind(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.users.CreateAccount(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(user))
}

// Token exchanges an email and password for a bearer token
func (h *UserHandler) Token(c *gin.Context) {
	var req types.TokenRequest
	if err := bind(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}

	token, err := h.auth.IssueToken(c.Request.Context(), req.Email, req.Password)
	metrics.RecordTokenRequest(err == nil)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Me returns the authenticated user
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(middleware.ErrMissingCredentials)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// Update replaces the authenticated user's email, name and password
func (h *UserHandler) Update(c *gin.Context) {
	h.update(c, false)
}

// PartialUpdate changes only the fields present in the body
func (h *UserHandler) PartialUpdate(c *gin.Context) {
	h.update(c, true)
}

func (h *UserHandler) update(c *gin.Context, partial bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(middleware.ErrMissingCredentials)
		return
	}

	var req types.UpdateUserRequest
	if partial {
		if err := bind(c, &req, true); err != nil {
			_ = c.Error(err)
			return
		}
	} else {
		var full types.ReplaceUserRequest
		if err := bind(c, &full, true); err != nil {
			_ = c.Error(err)
			return
		}
		req = types.UpdateUserRequest(full)
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), user, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(updated))
}

// Logout revokes the token used for this request
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.auth.Revoke(c.Request.Context(), c.GetString(middleware.ContextTokenKey)); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

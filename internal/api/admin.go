package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-api/backend/internal/service"
)

// AdminHandler exposes account listings to staff users
type AdminHandler struct {
	users service.IUserService
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(users service.IUserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListUsers returns every account ordered by id
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, newAdminUserResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// AttributeHandler serves the list and create endpoints shared by tags and ingredients
type AttributeHandler[T any] struct {
	svc     service.IAttributeService[T]
	present func(T) AttributeResponse
}

// NewTagHandler creates the handler for /recipe/tags/
func NewTagHandler(svc service.IAttributeService[models.Tag]) *AttributeHandler[models.Tag] {
	return &AttributeHandler[models.Tag]{svc: svc, present: tagResponse}
}

// NewIngredientHandler creates the handler for /recipe/ingredients/
func NewIngredientHandler(svc service.IAttributeService[models.Ingredient]) *AttributeHandler[models.Ingredient] {
	return &AttributeHandler[models.Ingredient]{svc: svc, present: ingredientResponse}
}

// RegisterRoutes mounts the list and create routes under path
func (h *AttributeHandler[T]) RegisterRoutes(router gin.IRouter, path string) {
	router.GET(path, h.List)
	router.POST(path, h.Create)
}

// List returns the caller's records, optionally only those used by a recipe
func (h *AttributeHandler[T]) List(c *gin.Context) {
	assignedOnly, err := strconv.Atoi(c.DefaultQuery("assigned_only", "0"))
	if err != nil {
		_ = c.Error(service.NewValidationError("assigned_only", "A valid integer is required."))
		return
	}

	items, err := h.svc.List(c.Request.Context(), c.GetUint(userIDKey), assignedOnly != 0)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := make([]AttributeResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, h.present(item))
	}
	c.JSON(http.StatusOK, resp)
}

// Create stores a new record for the caller
func (h *AttributeHandler[T]) Create(c *gin.Context) {
	var req types.AttributeRequest
	if err := bind(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}

	item, err := h.svc.Create(c.Request.Context(), c.GetUint(userIDKey), req.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, h.present(*item))
}

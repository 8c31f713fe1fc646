package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-api/backend/internal/metrics"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// RecipeHandler serves the recipe endpoints
type RecipeHandler struct {
	recipes       service.IRecipeService
	maxImageBytes int64
}

// NewRecipeHandler creates a new RecipeHandler instance. maxImageBytes bounds upload bodies.
func NewRecipeHandler(recipes service.IRecipeService, maxImageBytes int64) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, maxImageBytes: maxImageBytes}
}

// RegisterRoutes mounts the recipe routes
func (h *RecipeHandler) RegisterRoutes(router gin.IRouter) {
	recipes := router.Group("/recipe/recipes")
	{
		recipes.GET("/", h.ListRecipes)
		recipes.POST("/", h.CreateRecipe)
		recipes.GET("/:id/", h.GetRecipe)
		recipes.PUT("/:id/", h.UpdateRecipe)
		recipes.PATCH("/:id/", h.PartialUpdateRecipe)
		recipes.POST("/:id/upload-image/", h.UploadImage)
	}
}

// ListRecipes returns the caller's recipes, filtered by ?tags= and ?ingredients=
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	tagIDs, err := parseIDs("tags", c.Query("tags"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ingredientIDs, err := parseIDs("ingredients", c.Query("ingredients"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipes, err := h.recipes.List(c.Request.Context(), c.GetUint(userIDKey), types.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp = append(resp, newRecipeResponse(&recipes[i], h.recipes.ImageURL(recipes[i].Image)))
	}
	c.JSON(http.StatusOK, resp)
}

// GetRecipe returns one recipe with nested tags and ingredients
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), c.GetUint(userIDKey), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newRecipeDetailResponse(recipe, h.recipes.ImageURL(recipe.Image)))
}

// CreateRecipe stores a new recipe for the caller
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := bind(c, &req, false); err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), c.GetUint(userIDKey), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeResponse(recipe, h.recipes.ImageURL(recipe.Image)))
}

// UpdateRecipe replaces a recipe
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	h.update(c, false)
}

// PartialUpdateRecipe changes only the fields present in the body
func (h *RecipeHandler) PartialUpdateRecipe(c *gin.Context) {
	h.update(c, true)
}

func (h *RecipeHandler) update(c *gin.Context, partial bool) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req types.RecipeRequest
	if err := bind(c, &req, false); err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), c.GetUint(userIDKey), id, &req, partial)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newRecipeResponse(recipe, h.recipes.ImageURL(recipe.Image)))
}

// UploadImage attaches the multipart "image" file to a recipe
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if h.maxImageBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageBytes)
	}
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		metrics.RecordImageUpload(false)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(service.NewValidationError("image", "The submitted file is too large."))
			return
		}
		_ = c.Error(service.NewValidationError("image", "No file was submitted."))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		metrics.RecordImageUpload(false)
		_ = c.Error(service.NewValidationError("image", "The submitted file could not be read."))
		return
	}

	recipe, err := h.recipes.UploadImage(c.Request.Context(), c.GetUint(userIDKey), id, header.Filename, data)
	metrics.RecordImageUpload(err == nil)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, RecipeImageResponse{ID: recipe.ID, Image: h.recipes.ImageURL(recipe.Image)})
}

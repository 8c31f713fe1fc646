package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-api/backend/internal/middleware"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/service"
)

const userIDKey = middleware.ContextUserIDKey

// Services groups everything the handlers depend on
type Services struct {
	Users       service.IUserService
	Auth        service.IAuthService
	Tags        service.IAttributeService[models.Tag]
	Ingredients service.IAttributeService[models.Ingredient]
	Recipes     service.IRecipeService
}

// RegisterRoutes mounts every API route on router
func RegisterRoutes(router gin.IRouter, svc Services, maxImageBytes int64) {
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(svc.Auth))

	NewUserHandler(svc.Users, svc.Auth).RegisterRoutes(router, protected)
	NewTagHandler(svc.Tags).RegisterRoutes(protected, "/recipe/tags/")
	NewIngredientHandler(svc.Ingredients).RegisterRoutes(protected, "/recipe/ingredients/")
	NewRecipeHandler(svc.Recipes, maxImageBytes).RegisterRoutes(protected)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireStaff())
	admin.GET("/users/", NewAdminHandler(svc.Users).ListUsers)
}

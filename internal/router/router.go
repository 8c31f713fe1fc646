package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/api"
	"github.com/pageza/recipe-api/backend/internal/metrics"
	"github.com/pageza/recipe-api/backend/internal/middleware"
)

// SetupRouter configures the application routes and middleware
func SetupRouter(cfg *config.Config, db *gorm.DB, svc api.Services, logger logrus.FieldLogger) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NoRoute)
	router.NoMethod(middleware.NoMethod)

	router.Use(
		middleware.Recovery(),
		middleware.Logger(logger),
		metrics.Middleware(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.ErrorHandler(),
	)

	router.GET("/health", api.Health(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.StorageBackend != "s3" && cfg.MediaRoot != "" {
		router.StaticFS(strings.TrimSuffix(cfg.MediaURL, "/"), http.Dir(cfg.MediaRoot))
	}

	api.RegisterRoutes(router, svc, cfg.MaxImageBytes)
	return router
}

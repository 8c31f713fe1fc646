package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/api"
	"github.com/pageza/recipe-api/backend/internal/database"
	"github.com/pageza/recipe-api/backend/internal/router"
	"github.com/pageza/recipe-api/backend/internal/server"
	"github.com/pageza/recipe-api/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	configureLogging(cfg)

	if err := run(context.Background(), cfg); err != nil {
		log.WithError(err).Fatal("Server error")
	}
	log.Info("Server stopped")
}

func configureLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)
	if cfg.Environment == config.Production {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	waitCtx, cancel := context.WithTimeout(ctx, cfg.DBWaitTimeout)
	err = database.WaitForDB(waitCtx, sqlDB, cfg.DBWaitInterval, log.WithField("component", "database"))
	cancel()
	if err != nil {
		return err
	}

	if err := database.RunMigrations(db, cfg); err != nil {
		return err
	}

	var tokens service.TokenStore
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		tokens = service.NewRedisTokenStore(client)
	}

	images, err := service.NewImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	svc := api.Services{
		Users:       service.NewUserService(db),
		Auth:        service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL, tokens),
		Tags:        service.NewTagService(db),
		Ingredients: service.NewIngredientService(db),
		Recipes:     service.NewRecipeService(db, images),
	}

	handler := router.SetupRouter(cfg, db, svc, log.StandardLogger())
	srv := server.New(cfg, handler)
	log.WithFields(log.Fields{
		"env":     cfg.Environment,
		"storage": cfg.StorageBackend,
		"redis":   tokens != nil,
	}).Info("Services configured")
	return srv.Run(ctx)
}

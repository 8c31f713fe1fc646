// Command createsuperuser provisions an active staff and superuser account.
package main

import (
	"context"
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/database"
	"github.com/pageza/recipe-api/backend/internal/service"
)

func main() {
	email := flag.String("email", os.Getenv("SUPERUSER_EMAIL"), "superuser email")
	password := flag.String("password", os.Getenv("SUPERUSER_PASSWORD"), "superuser password")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	user, err := service.NewUserService(db).CreatePrivilegedAccount(context.Background(), *email, *password)
	if err != nil {
		log.Fatalf("Failed to create superuser: %v", err)
	}
	log.WithFields(log.Fields{"id": user.ID, "email": user.Email}).Info("Superuser created")
}

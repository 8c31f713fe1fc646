package main

import (
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/database"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		dsn = cfg.DatabaseURL()
	}

	if *rollback {
		if err := database.RollbackSQL(dsn); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := database.MigrateSQL(dsn); err != nil {
		log.Fatal(err)
	}
}

package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations brings the schema up to date according to cfg.MigrationsMode.
// "auto" uses gorm auto-migration, "sql" applies the versioned PostgreSQL migrations,
// "none" leaves the schema alone.
func RunMigrations(db *gorm.DB, cfg *config.Config) error {
	switch cfg.MigrationsMode {
	case "none":
		return nil
	case "sql":
		if db.Dialector.Name() != "postgres" {
			return fmt.Errorf("sql migrations require postgres, got %s", db.Dialector.Name())
		}
		return MigrateSQL(cfg.DatabaseURL())
	default:
		log.WithField("dialect", db.Dialector.Name()).Info("Using GORM auto-migration")
		return AutoMigrate(db)
	}
}

// AutoMigrate creates or updates every table through gorm
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func newMigrator(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise migrate: %w", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		log.WithFields(log.Fields{"source_error": srcErr, "db_error": dbErr}).Warn("closing migrate")
	}
}

// MigrateSQL applies the embedded migrations to the database at databaseURL
func MigrateSQL(databaseURL string) error {
	m, err := newMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return logVersion(m, "Applied migrations")
}

// RollbackSQL reverts the most recently applied migration
func RollbackSQL(databaseURL string) error {
	m, err := newMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return logVersion(m, "Rolled back migration")
}

func logVersion(m *migrate.Migrate, msg string) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info(msg + ", schema is empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	log.WithFields(log.Fields{"version": version, "dirty": dirty}).Info(msg)
	return nil
}

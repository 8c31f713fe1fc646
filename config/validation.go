package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const devJWTSecret = "dev-insecure-secret"

// ValidateConfig checks if the configuration meets the requirements for its environment.
// Outside production a missing JWT secret falls back to a development value.
func ValidateConfig(cfg *Config) error {
	var errs []error

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			errs = append(errs, ValidationError{"DB_HOST", "is required for postgres"})
		}
		if cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_NAME", "is required for postgres"})
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "is required for sqlite"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	switch cfg.StorageBackend {
	case "local":
		if cfg.MediaRoot == "" {
			errs = append(errs, ValidationError{"MEDIA_ROOT", "is required for local storage"})
		}
	case "s3":
		if cfg.S3BucketName == "" {
			errs = append(errs, ValidationError{"S3_BUCKET_NAME", "is required for s3 storage"})
		}
	default:
		errs = append(errs, ValidationError{"STORAGE_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.StorageBackend)})
	}

	switch cfg.MigrationsMode {
	case "auto", "sql", "none":
	default:
		errs = append(errs, ValidationError{"MIGRATIONS_MODE", "must be one of auto, sql, none"})
	}

	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{"TOKEN_TTL", "must be positive"})
	}
	if cfg.DBWaitInterval <= 0 {
		errs = append(errs, ValidationError{"DB_WAIT_INTERVAL", "must be positive"})
	}

	if cfg.JWTSecret == "" {
		if cfg.Environment == Production || cfg.Environment == CI {
			errs = append(errs, ValidationError{"JWT_SECRET", "is required in " + string(cfg.Environment)})
		} else {
			cfg.JWTSecret = devJWTSecret
		}
	}
	if cfg.Environment == Production && cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
		errs = append(errs, ValidationError{"DB_PASSWORD", "db_password secret is required"})
	}

	return errors.Join(errs...)
}

package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// WaitForDB blocks until the database answers a ping, retrying at a fixed interval.
// It returns ctx.Err() if the context ends first.
func WaitForDB(ctx context.Context, db Pinger, interval time.Duration, logger logrus.FieldLogger) error {
	logger.Info("Connecting to database...")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	attempt := 1
	for {
		err := db.PingContext(ctx)
		if err == nil {
			logger.WithField("attempts", attempt).Info("Database available!")
			return nil
		}
		logger.WithError(err).Warnf("Database unavailable, waiting %s...", interval)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			attempt++
		}
	}
}

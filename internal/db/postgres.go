package db

import (
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"guard-collective/gatekeeper/internal/logging"
)

const (
	connectAttempts = 10
	connectBackoff  = 500 * time.Millisecond
)

var DB *sqlx.DB

// postgresDSN assembles the connection string from the PG_* environment.
// PG_SSLMODE defaults to disable for in-cluster deployments.
func postgresDSN() string {
	sslmode := os.Getenv("PG_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		os.Getenv("PG_USER"),
		os.Getenv("PG_PASSWORD"),
		os.Getenv("PG_HOST"),
		os.Getenv("PG_PORT"),
		os.Getenv("PG_DB"),
		sslmode,
	)
}

// InitPostgres connects the api-key store, retrying while the database
// container comes up
func InitPostgres() error {
	dsn := postgresDSN()

	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		DB, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			logging.Info("Connected to Postgres", "attempts", attempt)
			return nil
		}
		logging.Warn("Postgres not ready, retrying",
			"attempt", attempt,
			"error", err.Error(),
		)
		time.Sleep(connectBackoff)
	}
	return fmt.Errorf("postgres unreachable after %d attempts: %w", connectAttempts, err)
}

package db

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"guard-collective/gatekeeper/internal/models/entities"
)

var ORM *gorm.DB

// InitORM opens the audit database. Postgres when PG_HOST is set, a local
// sqlite file otherwise (development and single-host deployments).
func InitORM() (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	if host := os.Getenv("PG_HOST"); host != "" {
		db, err = gorm.Open(postgres.Open(postgresDSN()), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		log.Println("Connected to Postgres via GORM")
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "gatekeeper.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite at %s: %w", path, err)
		}
		log.Printf("Opened sqlite database at %s", path)
	}

	if err := db.AutoMigrate(&entities.VettingRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	ORM = db
	return db, nil
}

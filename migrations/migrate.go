package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"

	"dividendtracker/src/config"
	"dividendtracker/src/database"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Applies or rolls back the schema of the configured SQL backend:
//
//	go run ./migrations -direction up
//	go run ./migrations -direction down
func main() {
	direction := flag.String("direction", "up", "up or down")
	flag.Parse()

	// Load the appropriate config based on the environment
	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Fatalf("Error loading config for environment: %v", err)
	}

	ctx := context.Background()
	db, dialect, closeDB, err := open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB()

	switch *direction {
	case "up":
		version, err := database.MigrateUp(ctx, db, dialect)
		if err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		log.Printf("Database migrated to version %d", version)
	case "down":
		version, err := database.MigrateDown(ctx, db, dialect)
		if err != nil {
			log.Fatalf("Failed to roll back migration: %v", err)
		}
		log.Printf("Database rolled back to version %d", version)
	default:
		log.Fatalf("Unknown direction %q, expected up or down", *direction)
	}
}

func open(ctx context.Context, cfg *config.Config) (*sql.DB, goose.Dialect, func(), error) {
	switch cfg.Databases.Backend {
	case config.Postgres:
		pool, err := database.SetupDB(ctx, cfg)
		if err != nil {
			return nil, "", nil, err
		}
		db := stdlib.OpenDBFromPool(pool)
		return db, goose.DialectPostgres, func() { db.Close(); pool.Close() }, nil
	case config.SQLite, "":
		db, err := database.SetupSQLite(ctx, cfg)
		if err != nil {
			return nil, "", nil, err
		}
		return db, goose.DialectSQLite3, func() { db.Close() }, nil
	default:
		log.Fatalf("Backend %q has no sql schema", cfg.Databases.Backend)
		return nil, "", nil, nil
	}
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dividendtracker/src/config"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SetupSQLite opens the local database file, creating its directory when
// needed, and brings the schema up to date.
func SetupSQLite(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	path := cfg.Databases.SQLite.Path
	if path == "" {
		return nil, fmt.Errorf("databases.sqlite.path is not set")
	}
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps :memory: databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if _, err := MigrateUp(ctx, db, goose.DialectSQLite3); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

func newMigrationProvider(db *sql.DB, dialect goose.Dialect, dir string) (*goose.Provider, error) {
	fsys, err := fs.Sub(migrations, "migrations/"+dir)
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(dialect, db, fsys)
}

// MigrateUp applies every pending migration and returns the resulting version.
func MigrateUp(ctx context.Context, db *sql.DB, dialect goose.Dialect) (int64, error) {
	provider, err := providerFor(db, dialect)
	if err != nil {
		return 0, err
	}
	if _, err := provider.Up(ctx); err != nil {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return provider.GetDBVersion(ctx)
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, db *sql.DB, dialect goose.Dialect) (int64, error) {
	provider, err := providerFor(db, dialect)
	if err != nil {
		return 0, err
	}
	if _, err := provider.Down(ctx); err != nil {
		return 0, fmt.Errorf("failed to roll back migration: %w", err)
	}
	return provider.GetDBVersion(ctx)
}

func providerFor(db *sql.DB, dialect goose.Dialect) (*goose.Provider, error) {
	switch dialect {
	case goose.DialectSQLite3:
		return newMigrationProvider(db, dialect, "sqlite")
	case goose.DialectPostgres:
		return newMigrationProvider(db, dialect, "postgres")
	default:
		return nil, fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}

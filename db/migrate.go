// Package db embeds the SQL migrations for every supported database driver.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var Migrations embed.FS

// MigrationTable records applied versions.
const MigrationTable = "schema_migrations"

// Dialect maps a configured driver (postgres or sqlite) to its goose dialect and
// migrations directory.
func Dialect(driver string) (string, string, error) {
	switch driver {
	case "postgres":
		return "postgres", path.Join("migrations", "postgres"), nil
	case "sqlite":
		return "sqlite3", path.Join("migrations", "sqlite"), nil
	default:
		return "", "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

func prepare(driver string) (string, error) {
	dialect, dir, err := Dialect(driver)
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(Migrations)
	goose.SetTableName(MigrationTable)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("goose dialect: %w", err)
	}
	return dir, nil
}

// Up applies every pending migration.
func Up(ctx context.Context, conn *sql.DB, driver string) error {
	dir, err := prepare(driver)
	if err != nil {
		return err
	}
	if err := goose.UpContext(ctx, conn, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Down rolls back the latest migration.
func Down(ctx context.Context, conn *sql.DB, driver string) error {
	dir, err := prepare(driver)
	if err != nil {
		return err
	}
	if err := goose.DownContext(ctx, conn, dir); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	return nil
}

// Version returns the current schema version.
func Version(ctx context.Context, conn *sql.DB, driver string) (int64, error) {
	if _, err := prepare(driver); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, conn)
}

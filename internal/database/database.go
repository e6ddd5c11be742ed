// Package database opens the configured store once and hands the same connection
// pool to gorm (expenses) and sqlx (users).
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const pingTimeout = 5 * time.Second

type DB struct {
	Driver string
	Gorm   *gorm.DB
	SQLX   *sqlx.DB
	SQL    *sql.DB
}

// SQLDriverName is the database/sql driver registered for a configured driver.
func SQLDriverName(driver string) (string, error) {
	switch driver {
	case internal.DriverPostgres:
		return "pgx", nil
	case internal.DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}

func dialector(cfg internal.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case internal.DriverPostgres:
		return postgres.Open(cfg.GetDSN()), nil
	case internal.DriverSQLite:
		return sqlite.Open(cfg.GetDSN()), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// Open connects, applies pool limits and verifies the connection.
func Open(ctx context.Context, cfg internal.DatabaseConfig, logLevel gormLogger.LogLevel) (*DB, error) {
	driverName, err := SQLDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dial, &gorm.Config{Logger: gormLogger.Default.LogMode(logLevel)})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		Driver: cfg.Driver,
		Gorm:   gdb,
		SQLX:   sqlx.NewDb(sqlDB, driverName),
		SQL:    sqlDB,
	}, nil
}

func (d *DB) Close() error {
	return d.SQL.Close()
}

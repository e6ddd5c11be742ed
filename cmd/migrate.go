package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/expense-tracker/db"
	"github.com/frahmantamala/expense-tracker/internal/database"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded sql migrations for the configured driver",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	driverName, err := database.SQLDriverName(cfg.Database.Driver)
	if err != nil {
		return err
	}
	conn, err := goose.OpenDBWithDriver(driverName, cfg.Database.GetDSN())
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer conn.Close()

	if migrateRollback {
		err = db.Down(ctx, conn, cfg.Database.Driver)
	} else {
		err = db.Up(ctx, conn, cfg.Database.Driver)
	}
	if err != nil {
		return err
	}

	version, err := db.Version(ctx, conn, cfg.Database.Driver)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	logger.LoggerWrapper().Info("migrations applied", "driver", cfg.Database.Driver, "version", version, "rollback", migrateRollback)
	return nil
}

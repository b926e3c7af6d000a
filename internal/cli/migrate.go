package cli

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vietddude/codementor/internal/infra/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

func init() {
	migrateCmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", RunE: migrateRun(postgres.Migrate)},
		&cobra.Command{Use: "down", Short: "Roll back the latest migration", RunE: migrateRun(postgres.MigrateDown)},
		&cobra.Command{Use: "status", Short: "Print applied and pending migrations", RunE: migrateRun(postgres.MigrationStatus)},
	)
	rootCmd.AddCommand(migrateCmd)
}

func migrateRun(step func(context.Context, *sql.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if appCfg.Database.URL == "" {
			return errors.New("migrate needs database.url")
		}
		ctx := context.Background()
		db, err := postgres.NewDB(ctx, appCfg.Database)
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()

		if err := step(ctx, db.DB.DB); err != nil {
			return err
		}
		slog.Info("Migration finished", "command", cmd.Name())
		return nil
	}
}

package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stacklok/media-readiness-server/database"
)

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back database migrations",
	Long: `Roll back database migrations. By default one migration is rolled back;
use --num-steps to roll back more.`,
	RunE: runMigrateDown,
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	steps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}
	if steps == 0 {
		steps = 1
	}

	dbCfg, connString, err := migrationTarget(cmd)
	if err != nil {
		return err
	}

	ok, err := confirm(cmd, fmt.Sprintf("About to roll back %d migration(s) on %s@%s:%d/%s.",
		steps, dbCfg.User, dbCfg.Host, dbCfg.Port, dbCfg.Database))
	if err != nil {
		return err
	}
	if !ok {
		slog.Info("Rollback cancelled by user")
		return nil
	}

	slog.Info("Rolling back database migrations", "steps", steps)
	if err := database.MigrateDown(connString, int(steps)); err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	logMigrationVersion(connString)
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/learning-platform/internal/database"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Apply or roll back the migrations embedded in the binary.

Examples:
  lmsctl migrate up
  lmsctl migrate down --steps 2`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			if err := database.MigrateUp(e.db); err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), map[string]string{"status": "ok"}, "schema is up to date")
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateSteps <= 0 {
			return fmt.Errorf("--steps must be positive, got %d", migrateSteps)
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			if err := database.MigrateDown(e.db, migrateSteps); err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(),
				map[string]int{"rolled_back": migrateSteps},
				fmt.Sprintf("rolled back %d migration(s)", migrateSteps))
		})
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "Number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}

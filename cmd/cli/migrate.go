package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/anstrom/escudo/internal/config"
	"github.com/anstrom/escudo/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), false, func(ctx context.Context, _ *config.Config, database *db.DB) error {
			applied, err := db.NewMigrator(database.DB).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
			}
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations have been applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), false, func(ctx context.Context, _ *config.Config, database *db.DB) error {
			status, err := db.NewMigrator(database.DB).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to read migration status: %w", err)
			}
			displayMigrationStatus(cmd.OutOrStdout(), status)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func displayMigrationStatus(w io.Writer, status []db.MigrationStatus) {
	table := tablewriter.NewWriter(w)
	table.Header("Migration", "Status", "Applied")

	for _, s := range status {
		state := "pending"
		applied := "-"
		if s.Applied {
			state = "applied"
			applied = s.AppliedAt.Format("2006-01-02 15:04")
		}
		if s.Modified {
			state = "modified"
		}
		_ = table.Append([]string{s.Name, state, applied})
	}

	_ = table.Render()
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AI2HU/dbmanager/internal/db/sqlite"
)

func (a *app) migrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply and inspect the SQLite schema migrations. Connecting already applies pending migrations.`,
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.printSchemaVersion(cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Migrations completed successfully!")
			return nil
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show current migration version",
		Long:  `Show the current database migration version.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printSchemaVersion(cmd)
		},
	})

	return migrateCmd
}

func (a *app) printSchemaVersion(cmd *cobra.Command) error {
	defer a.closeDatabase()

	store, ok := a.database.(*sqlite.SQLite)
	if !ok {
		return fmt.Errorf("migrations are only tracked for the sqlite provider, current provider: %s", a.cfg.SQLDatabase.Provider)
	}

	version, dirty, err := store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d (%s)\n", version, state)
	return nil
}

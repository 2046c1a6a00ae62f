package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/backoffice/config"
	"github.com/warp/backoffice/store/sqlite"
)

func newMigrateCmd(conf *config.Config) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("db") {
				conf.DatabaseURL, _ = cmd.Flags().GetString("db")
			}
			logger := conf.NewLogger()

			// Open runs the schema migration.
			store, err := sqlite.Open(conf.StoreOptions())
			if err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			defer store.Close()

			logger.WithField("driver", conf.DBDriver).Info("schema up to date")
			return nil
		},
	}

	migrateCmd.Flags().String("db", "", "database path or URL (overrides DATABASE_URL)")

	return migrateCmd
}

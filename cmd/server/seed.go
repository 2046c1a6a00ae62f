package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/backoffice/config"
	"github.com/warp/backoffice/office"
	"github.com/warp/backoffice/scenarios"
	"github.com/warp/backoffice/store/sqlite"
)

func newSeedCmd(conf *config.Config) *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a demo scenario for a contractor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("db") {
				conf.DatabaseURL, _ = cmd.Flags().GetString("db")
			}
			logger := conf.NewLogger()

			if list, _ := cmd.Flags().GetBool("list"); list {
				for _, sc := range scenarios.List() {
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", sc.ID, sc.Description)
				}
				return nil
			}

			contractor, _ := cmd.Flags().GetString("contractor")
			if contractor == "" {
				return errors.New("--contractor is required")
			}
			scenario, _ := cmd.Flags().GetString("scenario")

			store, err := sqlite.Open(conf.StoreOptions())
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer store.Close()

			if err := scenarios.Load(cmd.Context(), store, office.ContractorID(contractor), scenario, office.Today()); err != nil {
				return err
			}

			logger.WithField("scenario", scenario).WithField("contractor", contractor).Info("scenario loaded")
			return nil
		},
	}

	seedCmd.Flags().String("db", "", "database path or URL (overrides DATABASE_URL)")
	seedCmd.Flags().String("contractor", "", "contractor ID to load the data for")
	seedCmd.Flags().String("scenario", "weekly-crew", "scenario ID")
	seedCmd.Flags().Bool("list", false, "list scenarios and exit")

	return seedCmd
}

/*
main.go - Application entry point

PURPOSE:
  Builds the backoffice command tree. Configuration comes from the
  environment (config package); flags override it per command.

COMMANDS:
  serve     Start the HTTP API (graceful shutdown on SIGINT/SIGTERM)
  migrate   Create or update the database schema and exit
  token     Mint a bearer token for a contractor (development)
  seed      Load a demo scenario for a contractor (development)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  backoffice serve --db="./data/backoffice.db"

  # Run with in-memory database on another port
  backoffice serve --db=":memory:" --port=3000

  # Token and demo data for local testing
  backoffice token --contractor=demo --ttl=24h
  backoffice seed --contractor=demo --scenario=weekly-crew

SEE ALSO:
  - config/config.go: Environment keys
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/backoffice/config"
)

func main() {
	if err := New().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// New builds the root command. Config is loaded once before any
// subcommand runs.
func New() *cobra.Command {
	conf := &config.Config{}

	rootCmd := &cobra.Command{
		Use:          "backoffice",
		Short:        "Contractor back office: attendance, payroll, clients and quotations",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			*conf = *loaded
			return nil
		},
	}

	rootCmd.AddCommand(newServeCmd(conf))
	rootCmd.AddCommand(newMigrateCmd(conf))
	rootCmd.AddCommand(newTokenCmd(conf))
	rootCmd.AddCommand(newSeedCmd(conf))

	return rootCmd
}

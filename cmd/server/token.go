package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/warp/backoffice/api"
	"github.com/warp/backoffice/config"
	"github.com/warp/backoffice/office"
)

// newTokenCmd mints a bearer token signed with JWT_SECRET. Login is handled
// elsewhere; this exists for local development and smoke tests.
func newTokenCmd(conf *config.Config) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for a contractor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if conf.JWTSecret == "" {
				return errors.New("JWT_SECRET is required")
			}

			contractor, err := cmd.Flags().GetString("contractor")
			if err != nil {
				return err
			}
			if contractor == "" {
				contractor = uuid.NewString()
			}
			ttl, err := cmd.Flags().GetDuration("ttl")
			if err != nil {
				return err
			}

			token, err := api.NewAuthenticator(conf.JWTSecret).Issue(office.ContractorID(contractor), ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	tokenCmd.Flags().String("contractor", "", "contractor ID (random when empty)")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")

	return tokenCmd
}

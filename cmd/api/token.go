package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parcelmama/internal/infrastructure/token"
	"parcelmama/pkg/config"
)

var tokenEmail string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a signed token for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Auth.Provider != config.AuthJWT {
			return fmt.Errorf("token minting needs AUTH_PROVIDER=%s", config.AuthJWT)
		}
		signed, err := token.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry).IssueToken(tokenEmail)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email the token is issued for")
	_ = tokenCmd.MarkFlagRequired("email")
}

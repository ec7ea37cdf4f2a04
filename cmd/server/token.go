package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/festy23/converge/internal/auth"
	"github.com/festy23/converge/internal/config"
)

var tokenEmail string

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "caller email to put in the token subject (required)")
	_ = tokenCmd.MarkFlagRequired("email")
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a development bearer token",
	Long: `Issue a bearer token signed with JWT_SECRET for local testing.

Examples:
  converge token --email alice@uni.edu
  curl -H "Authorization: Bearer $(converge token --email alice@uni.edu)" localhost:8080/api/projects`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func runToken(cmd *cobra.Command, _ []string) error {
	email := strings.TrimSpace(tokenEmail)
	if email == "" {
		return errors.New("--email must not be blank")
	}

	cfg := config.LoadAuthConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid auth configuration: %w", err)
	}

	token, err := auth.NewTokenManager(cfg).Issue(email)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

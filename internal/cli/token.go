package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
)

// NewTokenCommand issues access tokens for local development.
// Production tokens come from the account service.
func NewTokenCommand() *cobra.Command {
	var (
		userID string
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := auth.ParseRole(role)
			if err != nil {
				return err
			}
			if _, err := uuid.Parse(userID); err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			token, err := auth.NewJWTManager(rt.cfg.JWTSecret, rt.cfg.JWTAccessTokenTTL).GenerateAccessToken(userID, r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id (uuid) to put in the token")
	cmd.Flags().StringVar(&role, "role", "client", "Role: client, provider or admin")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

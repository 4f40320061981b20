package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/learning-platform/internal/repository"
	"github.com/iliyamo/learning-platform/internal/utils"
)

var (
	tokenEmail string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint access tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a bearer token for an existing account",
	Long: `Issue an HS256 access token signed with JWT_SECRET.

Without --ttl the token lives for ACCESS_TOKEN_TTL_MIN minutes.

Examples:
  lmsctl token issue --email alice@example.com
  lmsctl token issue --email alice@example.com --ttl 10m --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := requireEmail(tokenEmail)
		if err != nil {
			return err
		}
		if tokenTTL < 0 {
			return fmt.Errorf("--ttl must not be negative")
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			u, err := repository.NewUserRepo(e.db).GetByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", email, err)
			}
			ttl := tokenTTL
			if ttl == 0 {
				ttl = time.Duration(e.cfg.Auth.AccessTTLMin) * time.Minute
			}
			tok, err := utils.NewAccessToken(e.cfg.Auth.JWTSecret, u.ID, ttl)
			if err != nil {
				return err
			}
			out := map[string]any{"user_id": u.ID, "access_token": tok.Token, "expires_at": tok.Exp}
			return printResult(cmd.OutOrStdout(), out, tok.Token)
		})
	},
}

func init() {
	tokenIssueCmd.Flags().StringVar(&tokenEmail, "email", "", "Account email (required)")
	tokenIssueCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime, e.g. 30m")
	tokenCmd.AddCommand(tokenIssueCmd)
	rootCmd.AddCommand(tokenCmd)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/repository"
)

var (
	userEmail  string
	userStaff  bool
	userPhone  string
	userCity   string
	userRevoke bool
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an active account",
	Long: `Create an account identified by its email address.

Examples:
  lmsctl user create --email alice@example.com
  lmsctl user create --email ops@example.com --staff`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := requireEmail(userEmail)
		if err != nil {
			return err
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			u := &model.User{Email: email, IsStaff: userStaff, IsActive: true}
			if userPhone != "" {
				u.Phone = &userPhone
			}
			if userCity != "" {
				u.City = &userCity
			}
			if err := repository.NewUserRepo(e.db).Create(ctx, u); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return fmt.Errorf("user %s already exists", email)
				}
				return err
			}
			return printResult(cmd.OutOrStdout(), u, fmt.Sprintf("created user %d (%s)", u.ID, u.Email))
		})
	},
}

var userStaffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Grant or revoke staff rights",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := requireEmail(userEmail)
		if err != nil {
			return err
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			users := repository.NewUserRepo(e.db)
			u, err := users.GetByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", email, err)
			}
			if err := users.SetStaff(ctx, u.ID, !userRevoke); err != nil {
				return err
			}
			u.IsStaff = !userRevoke
			return printResult(cmd.OutOrStdout(), u, fmt.Sprintf("user %d staff=%t", u.ID, u.IsStaff))
		})
	},
}

func requireEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", errors.New("--email is required")
	}
	if !strings.Contains(email, "@") {
		return "", fmt.Errorf("invalid email %q", email)
	}
	return email, nil
}

func init() {
	for _, c := range []*cobra.Command{userCreateCmd, userStaffCmd} {
		c.Flags().StringVar(&userEmail, "email", "", "Account email (required)")
	}
	userCreateCmd.Flags().BoolVar(&userStaff, "staff", false, "Create the account with staff rights")
	userCreateCmd.Flags().StringVar(&userPhone, "phone", "", "Optional phone number")
	userCreateCmd.Flags().StringVar(&userCity, "city", "", "Optional city")
	userStaffCmd.Flags().BoolVar(&userRevoke, "revoke", false, "Remove staff rights instead of granting them")

	userCmd.AddCommand(userCreateCmd, userStaffCmd)
	rootCmd.AddCommand(userCmd)
}

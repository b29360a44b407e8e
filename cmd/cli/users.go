package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/anstrom/escudo/internal/config"
	"github.com/anstrom/escudo/internal/db"
)

var (
	userEmail    string
	userPassword string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Register a user",
	Example: `  escudo users create --email a@corp.com --password s3cret!`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), false, func(ctx context.Context, cfg *config.Config, database *db.DB) error {
			a, err := newApp(cfg, database, nil)
			if err != nil {
				return err
			}
			user, err := a.auth.Signup(ctx, userEmail, userPassword)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s)\n", user.ID, user.Email)
			return nil
		})
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user and all of their scan results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid user ID %q", args[0])
		}

		return withDatabase(cmd.Context(), false, func(ctx context.Context, cfg *config.Config, database *db.DB) error {
			a, err := newApp(cfg, database, nil)
			if err != nil {
				return err
			}
			if err := a.auth.DeleteUser(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %d\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	usersCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	usersCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password (at least 6 characters)")
	_ = usersCreateCmd.MarkFlagRequired("email")
	_ = usersCreateCmd.MarkFlagRequired("password")
}

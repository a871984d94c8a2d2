package main

import (
	"errors"
	"fmt"

	"github.com/dimitrije/fitlog/internal/services"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Grant a user the super admin role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]

		err := services.NewUserService(db).PromoteToAdmin(cmd.Context(), email)
		if errors.Is(err, services.ErrUserNotFound) {
			return fmt.Errorf("no user found with email: %s", email)
		}
		if err != nil {
			return fmt.Errorf("failed to promote user: %w", err)
		}

		color.Green("✓ Promoted %s to super admin", email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promoteCmd)
}

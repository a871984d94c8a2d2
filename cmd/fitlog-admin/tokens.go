package main

import (
	"fmt"

	"github.com/dimitrije/fitlog/internal/services"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var cleanupTokensCmd = &cobra.Command{
	Use:   "cleanup-tokens",
	Short: "Delete expired refresh tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := services.NewTokenService(db).CleanupExpired(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to clean up tokens: %w", err)
		}

		color.Green("✓ Removed %d expired refresh tokens", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupTokensCmd)
}

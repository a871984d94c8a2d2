package main

import (
	"fmt"

	"github.com/dimitrije/fitlog/internal/config"
	"github.com/dimitrije/fitlog/internal/database"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	db  *database.DB
)

var rootCmd = &cobra.Command{
	Use:   "fitlog-admin",
	Short: "Maintenance commands for a fitlog deployment",
	Long: `fitlog-admin runs one-off maintenance tasks against the fitlog database.

It reads the same environment (or .env file) as the API server, so
DATABASE_URL and JWT_SECRET must be set.

EXAMPLES:

  fitlog-admin migrate
  fitlog-admin promote coach@example.com
  fitlog-admin cleanup-tokens
  fitlog-admin seed --email demo@example.com --sessions 12`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err = database.New(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			db.Close()
		}
		return nil
	},
}

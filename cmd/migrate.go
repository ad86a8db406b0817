package main

import (
	"github.com/spf13/cobra"

	"github.com/dtroode/library-server/database"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, logger := loadConfig()
				if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
					return err
				}
				logger.Info("migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, logger := loadConfig()
				if err := database.Rollback(cmd.Context(), cfg.Database.DSN); err != nil {
					return err
				}
				logger.Info("migration rolled back")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print migration status",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _ := loadConfig()
				return database.Status(cmd.Context(), cfg.Database.DSN)
			},
		},
	)

	return cmd
}

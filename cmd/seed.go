package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/library-server/internal/clock"
	"github.com/dtroode/library-server/internal/seed"
	"github.com/dtroode/library-server/internal/service"
	"github.com/dtroode/library-server/internal/token"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, books and borrowings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger := loadConfig()
			if cfg.Database.Driver != "postgres" {
				return fmt.Errorf("seeding requires the postgres driver, got %q", cfg.Database.Driver)
			}

			loc, err := cfg.Lending.Location()
			if err != nil {
				return err
			}

			db, err := openStore(ctx, cfg.Database, logger)
			if err != nil {
				return err
			}
			defer db.close()

			accounts := service.NewAuth(db.store.Users(), token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), logger, true)

			summary, err := seed.Run(ctx, db.store, accounts, clock.NewSystem(loc), logger)
			if errors.Is(err, seed.ErrAlreadySeeded) {
				logger.Info("database already seeded, nothing to do")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users, %d books, %d borrowings. Password for every account: %s\n",
				summary.Users, summary.Books, summary.Borrowings, seed.DefaultPassword)
			return nil
		},
	}
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dtroode/library-server/internal/model"
	"github.com/dtroode/library-server/internal/service"
	"github.com/dtroode/library-server/internal/token"
)

func newCreateLibrarianCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "create-librarian",
		Short: "Create a librarian account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger := loadConfig()

			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			db, err := openStore(ctx, cfg.Database, logger)
			if err != nil {
				return err
			}
			defer db.close()

			auth := service.NewAuth(db.store.Users(), token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), logger, true)
			user, err := auth.CreateLibrarian(ctx, email, password)
			if err != nil {
				if verr, ok := model.AsValidationError(err); ok {
					return fmt.Errorf("invalid librarian: %v", verr.Messages)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Librarian %s created with id %s\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "librarian email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func readPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password prompt requires a terminal")
	}

	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/library-server/internal/model"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// constraintErrors maps schema constraint names to domain errors.
var constraintErrors = map[string]error{
	"users_email_key":              model.ErrDuplicateEmail,
	"books_isbn_key":               model.ErrDuplicateISBN,
	"borrowings_active_key":        model.ErrActiveBorrowingExists,
	"books_available_copies_check": model.ErrInconsistentCopies,
	"books_total_copies_check":     model.ErrInconsistentCopies,
}

// mapError translates constraint violations into domain errors. Other
// errors are returned unchanged.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation, codeCheckViolation:
		if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
		if pgErr.Code == codeCheckViolation {
			return model.ErrInconsistentCopies
		}
	case codeForeignKeyViolation:
		return model.ErrNotFound
	}
	return err
}

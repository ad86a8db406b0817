package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/library-server/internal/clock"
	"github.com/dtroode/library-server/internal/logger"
	"github.com/dtroode/library-server/internal/model"
	"github.com/dtroode/library-server/internal/policy"
	"github.com/dtroode/library-server/internal/validator"
)

type Borrowing struct {
	store      model.Store
	clock      clock.Clock
	loanDays   int
	logger     *logger.Logger
}

func NewBorrowing(store model.Store, clk clock.Clock, loanDays int, logger *logger.Logger) *Borrowing {
	if loanDays <= 0 {
		loanDays = model.DefaultLoanDays
	}
	return &Borrowing{
		store:      store,
		clock:      clk,
		loanDays:   loanDays,
		logger:     logger,
	}
}

// Create lends one copy of the book to the caller. The book row is locked
// for the whole check-and-decrement, so racing borrowers of the last copy
// serialize and only one succeeds.
func (s *Borrowing) Create(ctx context.Context, identity model.Identity, params model.CreateBorrowingParams) (model.Borrowing, error) {
	if err := policy.Authorize(identity.Role, policy.ActionBorrow); err != nil {
		return model.Borrowing{}, err
	}

	now := s.clock.Now()
	today := s.clock.Today()
	// Calendar days in the clock's zone, so a DST shift never moves the due date.
	dueDate := model.DateOf(now.AddDate(0, 0, s.loanDays))
	if params.DueDate != nil {
		dueDate = model.DateOf(*params.DueDate)
	}

	var created model.Borrowing
	err := s.store.InTx(ctx, func(ctx context.Context, repos model.Repositories) error {
		book, err := repos.Books().GetForUpdate(ctx, params.BookID)
		if err != nil {
			return fmt.Errorf("failed to get book by id: %w", err)
		}

		active, err := repos.Borrowings().HasActive(ctx, identity.UserID, book.ID)
		if err != nil {
			return fmt.Errorf("failed to check active borrowing: %w", err)
		}

		v := validator.New()
		v.Check(!active, "base", model.MsgAlreadyBorrowed)
		v.Check(book.Available(), "base", model.MsgNotAvailable)
		v.Check(dueDate.After(today), "due_date", model.MsgDueDateInFuture)
		if err := v.Err(); err != nil {
			return err
		}

		book.Borrow()
		if book, err = repos.Books().Update(ctx, book); err != nil {
			return fmt.Errorf("failed to update book copies: %w", err)
		}

		created, err = repos.Borrowings().Create(ctx, model.Borrowing{
			UserID:     identity.UserID,
			BookID:     book.ID,
			BorrowedAt: now,
			DueDate:    dueDate,
		})
		if err != nil {
			return fmt.Errorf("failed to create borrowing: %w", err)
		}
		created.Book = &book
		return nil
	})
	if errors.Is(err, model.ErrActiveBorrowingExists) {
		return model.Borrowing{}, model.NewValidationError(model.MsgAlreadyBorrowed)
	}
	if err != nil {
		if _, ok := model.AsValidationError(err); !ok && !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Borrowing service: failed to lend book",
				"user_id", identity.UserID,
				"book_id", params.BookID,
				"error", err.Error())
		}
		return model.Borrowing{}, err
	}

	s.logger.Info("Borrowing service: book lent",
		"borrowing_id", created.ID,
		"user_id", identity.UserID,
		"book_id", created.BookID,
		"due_date", created.DueDate.Format(time.DateOnly))
	return created, nil
}

// Return closes an active borrowing and puts the copy back on the shelf in
// one transaction. A second return fails with model.ErrAlreadyReturned.
func (s *Borrowing) Return(ctx context.Context, identity model.Identity, id uuid.UUID) (model.Borrowing, error) {
	if err := policy.Authorize(identity.Role, policy.ActionReturnAny); err != nil {
		return model.Borrowing{}, err
	}

	var returned model.Borrowing
	err := s.store.InTx(ctx, func(ctx context.Context, repos model.Repositories) error {
		current, err := repos.Borrowings().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get borrowing by id: %w", err)
		}

		// Book before borrowing, the same order Create and cascading deletes use.
		book, err := repos.Books().GetForUpdate(ctx, current.BookID)
		if err != nil {
			return fmt.Errorf("failed to get book by id: %w", err)
		}
		current, err = repos.Borrowings().GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to lock borrowing: %w", err)
		}
		if !current.IsActive() {
			return model.ErrAlreadyReturned
		}

		returned, err = repos.Borrowings().MarkReturned(ctx, id, s.clock.Now())
		if err != nil {
			return err
		}

		if book.Return() {
			if book, err = repos.Books().Update(ctx, book); err != nil {
				return fmt.Errorf("failed to update book copies: %w", err)
			}
		} else {
			s.logger.Warn("Borrowing service: returned copy found the shelf already full",
				"borrowing_id", id,
				"book_id", book.ID,
				"total_copies", book.TotalCopies,
				"borrowed_copies", book.BorrowedCopies())
		}
		returned.Book = &book
		return nil
	})
	if err != nil {
		if !errors.Is(err, model.ErrAlreadyReturned) && !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Borrowing service: failed to return borrowing",
				"borrowing_id", id,
				"error", err.Error())
		}
		return model.Borrowing{}, err
	}

	s.logger.Info("Borrowing service: book returned",
		"borrowing_id", returned.ID,
		"book_id", returned.BookID,
		"librarian_id", identity.UserID)
	return returned, nil
}

// Get returns a borrowing with its book and user. Members only see their
// own borrowings; anything else reads as not found.
func (s *Borrowing) Get(ctx context.Context, identity model.Identity, id uuid.UUID) (model.Borrowing, error) {
	br, err := s.store.Borrowings().GetByID(ctx, id)
	if err != nil {
		return model.Borrowing{}, fmt.Errorf("failed to get borrowing by id: %w", err)
	}

	if br.UserID != identity.UserID && !policy.Allowed(identity.Role, policy.ActionViewAnyBorrowing) {
		return model.Borrowing{}, model.ErrNotFound
	}

	book, err := s.store.Books().GetByID(ctx, br.BookID)
	if err != nil {
		return model.Borrowing{}, fmt.Errorf("failed to get book by id: %w", err)
	}
	user, err := s.store.Users().GetByID(ctx, br.UserID)
	if err != nil {
		return model.Borrowing{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	br.Book, br.User = &book, &user

	return br, nil
}

// List returns the caller's borrowings, newest first.
func (s *Borrowing) List(ctx context.Context, identity model.Identity) ([]model.Borrowing, error) {
	if err := policy.Authorize(identity.Role, policy.ActionViewOwnBorrowings); err != nil {
		return nil, err
	}

	list, err := s.store.Borrowings().ListByUser(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowings: %w", err)
	}
	return list, nil
}

// Today is the lending calendar date used for overdue calculations.
func (s *Borrowing) Today() time.Time {
	return s.clock.Today()
}

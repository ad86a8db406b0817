package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultLoanDays is how many calendar days a book is lent when no due date
// is given.
const DefaultLoanDays = 14

// BorrowingStore defines persistence operations for the borrowing ledger.
type BorrowingStore interface {
	Create(ctx context.Context, borrowing Borrowing) (Borrowing, error)
	GetByID(ctx context.Context, id uuid.UUID) (Borrowing, error)
	// GetForUpdate returns the borrowing and, inside a transaction, locks it until commit.
	GetForUpdate(ctx context.Context, id uuid.UUID) (Borrowing, error)
	HasActive(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
	// ListByUser returns the user's borrowings, newest first, with the book attached.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Borrowing, error)
	// MarkReturned sets returned_at on an active borrowing. It returns
	// ErrAlreadyReturned when the borrowing is no longer active.
	MarkReturned(ctx context.Context, id uuid.UUID, returnedAt time.Time) (Borrowing, error)
}

// Borrowing is one ledger entry: a user holding a copy of a book.
// DueDate is a calendar date stored as midnight UTC.
type Borrowing struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	BookID     uuid.UUID
	BorrowedAt time.Time
	DueDate    time.Time
	ReturnedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Book *Book
	User *User
}

// IsActive reports whether the book has not been returned yet.
func (b *Borrowing) IsActive() bool {
	return b.ReturnedAt == nil
}

// IsOverdue reports whether the borrowing is active and its due date is
// strictly before today.
func (b *Borrowing) IsOverdue(today time.Time) bool {
	return b.IsActive() && DateOf(b.DueDate).Before(DateOf(today))
}

// IsDueOn reports whether the borrowing is active and due exactly on day.
func (b *Borrowing) IsDueOn(day time.Time) bool {
	return b.IsActive() && DateOf(b.DueDate).Equal(DateOf(day))
}

// DaysOverdue returns the number of whole days past the due date, or 0 when
// the borrowing is not overdue.
func (b *Borrowing) DaysOverdue(today time.Time) int {
	if !b.IsOverdue(today) {
		return 0
	}
	return int(DateOf(today).Sub(DateOf(b.DueDate)).Hours() / 24)
}

// DateOf returns the calendar date of t (in t's location) as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateBorrowingParams contains parameters to lend a book to the caller.
// DueDate defaults to the loan period from now when nil.
type CreateBorrowingParams struct {
	BookID  uuid.UUID
	DueDate *time.Time
}

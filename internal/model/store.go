package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repositories groups the stores that take part in one unit of work.
type Repositories interface {
	Users() UserStore
	Books() BookStore
	Borrowings() BorrowingStore
}

// Store is the shared transactional store behind the core.
type Store interface {
	Repositories
	Reports() ReportStore
	// InTx runs fn as one atomic, isolated unit. Either every write made
	// through repos commits or none does.
	InTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// ReportStore serves read-only aggregate views. Results may lag in-flight writes.
type ReportStore interface {
	CountBooks(ctx context.Context) (int, error)
	CountActiveBorrowings(ctx context.Context) (int, error)
	CountDueOn(ctx context.Context, day time.Time) (int, error)
	// ListOverdue returns every overdue borrowing with user and book attached.
	ListOverdue(ctx context.Context, today time.Time) ([]Borrowing, error)
	// ListActiveByUser returns the user's active borrowings with the book attached.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]Borrowing, error)
	// ListOverdueByUser returns the user's overdue borrowings with the book attached.
	ListOverdueByUser(ctx context.Context, userID uuid.UUID, today time.Time) ([]Borrowing, error)
}

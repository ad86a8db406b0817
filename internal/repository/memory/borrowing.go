package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/library-server/internal/model"
)

var _ model.BorrowingStore = (*BorrowingRepository)(nil)

type BorrowingRepository struct {
	run runner
	now func() time.Time
}

func (r *BorrowingRepository) Create(ctx context.Context, borrowing model.Borrowing) (model.Borrowing, error) {
	err := r.run(func(a *arena) error {
		if _, ok := a.users[borrowing.UserID]; !ok {
			return model.ErrNotFound
		}
		if _, ok := a.books[borrowing.BookID]; !ok {
			return model.ErrNotFound
		}
		if borrowing.IsActive() {
			for _, br := range a.borrowings {
				if br.UserID == borrowing.UserID && br.BookID == borrowing.BookID && br.IsActive() {
					return model.ErrActiveBorrowingExists
				}
			}
		}
		if borrowing.ID == uuid.Nil {
			borrowing.ID = uuid.New()
		}
		now := r.now()
		borrowing.CreatedAt, borrowing.UpdatedAt = now, now
		borrowing.DueDate = model.DateOf(borrowing.DueDate)
		borrowing.Book, borrowing.User = nil, nil
		a.borrowings[borrowing.ID] = borrowing
		return nil
	})
	if err != nil {
		return model.Borrowing{}, err
	}
	return borrowing, nil
}

func (r *BorrowingRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Borrowing, error) {
	var borrowing model.Borrowing
	err := r.run(func(a *arena) error {
		br, ok := a.borrowings[id]
		if !ok {
			return model.ErrNotFound
		}
		borrowing = br
		return nil
	})
	return borrowing, err
}

// GetForUpdate is GetByID; the store lock already isolates the transaction.
func (r *BorrowingRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (model.Borrowing, error) {
	return r.GetByID(ctx, id)
}

func (r *BorrowingRepository) HasActive(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	var found bool
	err := r.run(func(a *arena) error {
		for _, br := range a.borrowings {
			if br.UserID == userID && br.BookID == bookID && br.IsActive() {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *BorrowingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Borrowing, error) {
	var list []model.Borrowing
	err := r.run(func(a *arena) error {
		for _, br := range a.borrowingsWhere(func(br *model.Borrowing) bool { return br.UserID == userID }) {
			list = append(list, a.attachBook(br))
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		return list[i].BorrowedAt.After(list[j].BorrowedAt)
	})
	return list, err
}

func (r *BorrowingRepository) MarkReturned(ctx context.Context, id uuid.UUID, returnedAt time.Time) (model.Borrowing, error) {
	var borrowing model.Borrowing
	err := r.run(func(a *arena) error {
		br, ok := a.borrowings[id]
		if !ok {
			return model.ErrNotFound
		}
		if !br.IsActive() {
			return model.ErrAlreadyReturned
		}
		br.ReturnedAt = &returnedAt
		br.UpdatedAt = r.now()
		a.borrowings[id] = br
		borrowing = br
		return nil
	})
	return borrowing, err
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/library-server/internal/model"
)

var _ model.BorrowingStore = (*BorrowingRepository)(nil)

type BorrowingRepository struct {
	db querier
}

func NewBorrowingRepository(db querier) *BorrowingRepository {
	return &BorrowingRepository{
		db: db,
	}
}

const borrowingColumns = `id, user_id, book_id, borrowed_at, due_date, returned_at, created_at, updated_at`

func scanBorrowing(row pgx.Row) (model.Borrowing, error) {
	var br model.Borrowing
	err := row.Scan(
		&br.ID, &br.UserID, &br.BookID, &br.BorrowedAt, &br.DueDate,
		&br.ReturnedAt, &br.CreatedAt, &br.UpdatedAt,
	)
	br.DueDate = model.DateOf(br.DueDate)
	return br, err
}

func (r *BorrowingRepository) Create(ctx context.Context, borrowing model.Borrowing) (model.Borrowing, error) {
	if borrowing.ID == uuid.Nil {
		borrowing.ID = uuid.New()
	}

	query := `INSERT INTO borrowings (id, user_id, book_id, borrowed_at, due_date, returned_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + borrowingColumns

	saved, err := scanBorrowing(r.db.QueryRow(ctx, query,
		borrowing.ID, borrowing.UserID, borrowing.BookID, borrowing.BorrowedAt,
		model.DateOf(borrowing.DueDate), borrowing.ReturnedAt,
	))
	if err != nil {
		return model.Borrowing{}, fmt.Errorf("failed to create borrowing: %w", mapError(err))
	}

	return saved, nil
}

func (r *BorrowingRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Borrowing, error) {
	return r.get(ctx, `SELECT `+borrowingColumns+` FROM borrowings WHERE id = $1`, id)
}

func (r *BorrowingRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (model.Borrowing, error) {
	return r.get(ctx, `SELECT `+borrowingColumns+` FROM borrowings WHERE id = $1 FOR UPDATE`, id)
}

func (r *BorrowingRepository) get(ctx context.Context, query string, id uuid.UUID) (model.Borrowing, error) {
	br, err := scanBorrowing(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Borrowing{}, model.ErrNotFound
		}
		return model.Borrowing{}, fmt.Errorf("failed to get borrowing: %w", err)
	}
	return br, nil
}

func (r *BorrowingRepository) HasActive(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (
				SELECT 1 FROM borrowings
				WHERE user_id = $1 AND book_id = $2 AND returned_at IS NULL
			  )`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, bookID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check active borrowing: %w", err)
	}
	return exists, nil
}

func (r *BorrowingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Borrowing, error) {
	query := `
		SELECT br.id, br.user_id, br.book_id, br.borrowed_at, br.due_date, br.returned_at, br.created_at, br.updated_at,
		       b.id, b.title, b.author, b.genre, b.isbn, b.total_copies, b.available_copies, b.created_at, b.updated_at
		FROM borrowings br
		JOIN books b ON b.id = br.book_id
		WHERE br.user_id = $1
		ORDER BY br.borrowed_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowings: %w", err)
	}
	defer rows.Close()

	var list []model.Borrowing
	for rows.Next() {
		var (
			br   model.Borrowing
			book model.Book
		)
		err := rows.Scan(
			&br.ID, &br.UserID, &br.BookID, &br.BorrowedAt, &br.DueDate, &br.ReturnedAt, &br.CreatedAt, &br.UpdatedAt,
			&book.ID, &book.Title, &book.Author, &book.Genre, &book.ISBN,
			&book.TotalCopies, &book.AvailableCopies, &book.CreatedAt, &book.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan borrowing: %w", err)
		}
		br.DueDate = model.DateOf(br.DueDate)
		br.Book = &book
		list = append(list, br)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate borrowings: %w", err)
	}

	return list, nil
}

// MarkReturned only touches active rows, so a concurrent second return
// observes ErrAlreadyReturned.
func (r *BorrowingRepository) MarkReturned(ctx context.Context, id uuid.UUID, returnedAt time.Time) (model.Borrowing, error) {
	query := `UPDATE borrowings SET returned_at = $2, updated_at = NOW()
			  WHERE id = $1 AND returned_at IS NULL
			  RETURNING ` + borrowingColumns

	br, err := scanBorrowing(r.db.QueryRow(ctx, query, id, returnedAt))
	if err == nil {
		return br, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Borrowing{}, fmt.Errorf("failed to mark borrowing returned: %w", err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return model.Borrowing{}, err
	}
	return model.Borrowing{}, model.ErrAlreadyReturned
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dtroode/library-server/internal/model"
)

var _ model.ReportStore = (*ReportRepository)(nil)

// ReportRepository runs read-only aggregate queries through sqlx.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{
		db: db,
	}
}

type reportRow struct {
	ID         uuid.UUID  `db:"id"`
	UserID     uuid.UUID  `db:"user_id"`
	BookID     uuid.UUID  `db:"book_id"`
	BorrowedAt time.Time  `db:"borrowed_at"`
	DueDate    time.Time  `db:"due_date"`
	ReturnedAt *time.Time `db:"returned_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`

	BookTitle           string    `db:"book_title"`
	BookAuthor          string    `db:"book_author"`
	BookGenre           string    `db:"book_genre"`
	BookISBN            string    `db:"book_isbn"`
	BookTotalCopies     int       `db:"book_total_copies"`
	BookAvailableCopies int       `db:"book_available_copies"`
	BookCreatedAt       time.Time `db:"book_created_at"`
	BookUpdatedAt       time.Time `db:"book_updated_at"`

	UserEmail     string    `db:"user_email"`
	UserRole      string    `db:"user_role"`
	UserCreatedAt time.Time `db:"user_created_at"`
	UserUpdatedAt time.Time `db:"user_updated_at"`
}

func (row reportRow) toModel() model.Borrowing {
	return model.Borrowing{
		ID:         row.ID,
		UserID:     row.UserID,
		BookID:     row.BookID,
		BorrowedAt: row.BorrowedAt,
		DueDate:    model.DateOf(row.DueDate),
		ReturnedAt: row.ReturnedAt,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
		Book: &model.Book{
			ID:              row.BookID,
			Title:           row.BookTitle,
			Author:          row.BookAuthor,
			Genre:           row.BookGenre,
			ISBN:            row.BookISBN,
			TotalCopies:     row.BookTotalCopies,
			AvailableCopies: row.BookAvailableCopies,
			CreatedAt:       row.BookCreatedAt,
			UpdatedAt:       row.BookUpdatedAt,
		},
		User: &model.User{
			ID:        row.UserID,
			Email:     row.UserEmail,
			Role:      model.Role(row.UserRole),
			CreatedAt: row.UserCreatedAt,
			UpdatedAt: row.UserUpdatedAt,
		},
	}
}

var (
	activeCond = goqu.I("br.returned_at").IsNull()

	reportColumns = []any{
		goqu.I("br.id"), goqu.I("br.user_id"), goqu.I("br.book_id"),
		goqu.I("br.borrowed_at"), goqu.I("br.due_date"), goqu.I("br.returned_at"),
		goqu.I("br.created_at"), goqu.I("br.updated_at"),
		goqu.I("b.title").As("book_title"),
		goqu.I("b.author").As("book_author"),
		goqu.I("b.genre").As("book_genre"),
		goqu.I("b.isbn").As("book_isbn"),
		goqu.I("b.total_copies").As("book_total_copies"),
		goqu.I("b.available_copies").As("book_available_copies"),
		goqu.I("b.created_at").As("book_created_at"),
		goqu.I("b.updated_at").As("book_updated_at"),
		goqu.I("u.email").As("user_email"),
		goqu.I("u.role").As("user_role"),
		goqu.I("u.created_at").As("user_created_at"),
		goqu.I("u.updated_at").As("user_updated_at"),
	}
)

func overdueCond(today time.Time) exp.Expression {
	return goqu.And(activeCond, goqu.I("br.due_date").Lt(model.DateOf(today)))
}

func borrowingsQuery(where ...exp.Expression) *goqu.SelectDataset {
	return dialect.From(goqu.T("borrowings").As("br")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("br.book_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("br.user_id")))).
		Select(reportColumns...).
		Where(where...).
		Order(goqu.I("br.due_date").Asc(), goqu.I("br.borrowed_at").Asc()).
		Prepared(true)
}

func (r *ReportRepository) count(ctx context.Context, ds *goqu.SelectDataset) (int, error) {
	query, args, err := ds.Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}

func (r *ReportRepository) list(ctx context.Context, ds *goqu.SelectDataset) ([]model.Borrowing, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build report query: %w", err)
	}

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to run report query: %w", err)
	}

	list := make([]model.Borrowing, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toModel())
	}
	return list, nil
}

func (r *ReportRepository) CountBooks(ctx context.Context) (int, error) {
	return r.count(ctx, dialect.From("books"))
}

func (r *ReportRepository) CountActiveBorrowings(ctx context.Context) (int, error) {
	return r.count(ctx, dialect.From(goqu.T("borrowings").As("br")).Where(activeCond))
}

func (r *ReportRepository) CountDueOn(ctx context.Context, day time.Time) (int, error) {
	return r.count(ctx, dialect.From(goqu.T("borrowings").As("br")).
		Where(activeCond, goqu.I("br.due_date").Eq(model.DateOf(day))))
}

func (r *ReportRepository) ListOverdue(ctx context.Context, today time.Time) ([]model.Borrowing, error) {
	return r.list(ctx, borrowingsQuery(overdueCond(today)))
}

func (r *ReportRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.Borrowing, error) {
	return r.list(ctx, borrowingsQuery(activeCond, goqu.I("br.user_id").Eq(userID.String())))
}

func (r *ReportRepository) ListOverdueByUser(ctx context.Context, userID uuid.UUID, today time.Time) ([]model.Borrowing, error) {
	return r.list(ctx, borrowingsQuery(overdueCond(today), goqu.I("br.user_id").Eq(userID.String())))
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/library-server/internal/model"
)

var _ model.BookStore = (*BookRepository)(nil)

type BookRepository struct {
	db querier
}

func NewBookRepository(db querier) *BookRepository {
	return &BookRepository{
		db: db,
	}
}

const bookColumns = `id, title, author, genre, isbn, total_copies, available_copies, created_at, updated_at`

var dialect = goqu.Dialect("postgres")

func scanBook(row pgx.Row) (model.Book, error) {
	var book model.Book
	err := row.Scan(
		&book.ID, &book.Title, &book.Author, &book.Genre, &book.ISBN,
		&book.TotalCopies, &book.AvailableCopies, &book.CreatedAt, &book.UpdatedAt,
	)
	return book, err
}

func (r *BookRepository) Create(ctx context.Context, book model.Book) (model.Book, error) {
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}

	query := `INSERT INTO books (id, title, author, genre, isbn, total_copies, available_copies)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + bookColumns

	saved, err := scanBook(r.db.QueryRow(ctx, query,
		book.ID, book.Title, book.Author, book.Genre, book.ISBN, book.TotalCopies, book.AvailableCopies,
	))
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to create book: %w", mapError(err))
	}

	return saved, nil
}

func (r *BookRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Book, error) {
	return r.get(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
}

func (r *BookRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (model.Book, error) {
	return r.get(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, id)
}

func (r *BookRepository) get(ctx context.Context, query string, id uuid.UUID) (model.Book, error) {
	book, err := scanBook(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, model.ErrNotFound
		}
		return model.Book{}, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

func (r *BookRepository) List(ctx context.Context) ([]model.Book, error) {
	return r.Search(ctx, "")
}

// Search matches query as a literal, case-insensitive substring of title,
// author or genre.
func (r *BookRepository) Search(ctx context.Context, query string) ([]model.Book, error) {
	sql, args, err := searchBooksQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

func searchBooksQuery(query string) (string, []any, error) {
	ds := dialect.From("books").
		Select("id", "title", "author", "genre", "isbn", "total_copies", "available_copies", "created_at", "updated_at").
		Order(goqu.C("title").Asc(), goqu.C("isbn").Asc()).
		Prepared(true)

	if query != "" {
		pattern := "%" + escapeLike(query) + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("author").ILike(pattern),
			goqu.C("genre").ILike(pattern),
		))
	}

	return ds.ToSQL()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *BookRepository) Update(ctx context.Context, book model.Book) (model.Book, error) {
	query := `UPDATE books
			  SET title = $2, author = $3, genre = $4, isbn = $5,
			      total_copies = $6, available_copies = $7, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + bookColumns

	saved, err := scanBook(r.db.QueryRow(ctx, query,
		book.ID, book.Title, book.Author, book.Genre, book.ISBN, book.TotalCopies, book.AvailableCopies,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, model.ErrNotFound
		}
		return model.Book{}, fmt.Errorf("failed to update book: %w", mapError(err))
	}

	return saved, nil
}

func (r *BookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

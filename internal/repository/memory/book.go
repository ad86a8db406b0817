package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/library-server/internal/model"
)

var _ model.BookStore = (*BookRepository)(nil)

type BookRepository struct {
	run runner
	now func() time.Time
}

// checkBook mirrors the table constraints of the SQL schema.
func checkBook(a *arena, book model.Book) error {
	if book.AvailableCopies < 0 || book.ValidateCopies() != nil {
		return model.ErrInconsistentCopies
	}
	for id, other := range a.books {
		if id != book.ID && strings.EqualFold(other.ISBN, book.ISBN) {
			return model.ErrDuplicateISBN
		}
	}
	return nil
}

func (r *BookRepository) Create(ctx context.Context, book model.Book) (model.Book, error) {
	err := r.run(func(a *arena) error {
		if book.ID == uuid.Nil {
			book.ID = uuid.New()
		}
		if err := checkBook(a, book); err != nil {
			return err
		}
		now := r.now()
		book.CreatedAt, book.UpdatedAt = now, now
		a.books[book.ID] = book
		return nil
	})
	if err != nil {
		return model.Book{}, err
	}
	return book, nil
}

func (r *BookRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Book, error) {
	var book model.Book
	err := r.run(func(a *arena) error {
		b, ok := a.books[id]
		if !ok {
			return model.ErrNotFound
		}
		book = b
		return nil
	})
	return book, err
}

// GetForUpdate is GetByID; the store lock already isolates the transaction.
func (r *BookRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (model.Book, error) {
	return r.GetByID(ctx, id)
}

func (r *BookRepository) List(ctx context.Context) ([]model.Book, error) {
	return r.Search(ctx, "")
}

func (r *BookRepository) Search(ctx context.Context, query string) ([]model.Book, error) {
	var books []model.Book
	err := r.run(func(a *arena) error {
		for _, b := range a.books {
			if b.Matches(query) {
				books = append(books, b)
			}
		}
		return nil
	})
	sort.Slice(books, func(i, j int) bool {
		if books[i].Title == books[j].Title {
			return books[i].ISBN < books[j].ISBN
		}
		return books[i].Title < books[j].Title
	})
	return books, err
}

func (r *BookRepository) Update(ctx context.Context, book model.Book) (model.Book, error) {
	err := r.run(func(a *arena) error {
		existing, ok := a.books[book.ID]
		if !ok {
			return model.ErrNotFound
		}
		if err := checkBook(a, book); err != nil {
			return err
		}
		book.CreatedAt = existing.CreatedAt
		book.UpdatedAt = r.now()
		a.books[book.ID] = book
		return nil
	})
	if err != nil {
		return model.Book{}, err
	}
	return book, nil
}

// Delete removes the book together with its borrowings.
func (r *BookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.run(func(a *arena) error {
		if _, ok := a.books[id]; !ok {
			return model.ErrNotFound
		}
		delete(a.books, id)
		for bid, br := range a.borrowings {
			if br.BookID == id {
				delete(a.borrowings, bid)
			}
		}
		return nil
	})
}

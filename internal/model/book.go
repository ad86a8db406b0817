package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookStore defines persistence operations for the book inventory.
type BookStore interface {
	Create(ctx context.Context, book Book) (Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (Book, error)
	// GetForUpdate returns the book and, inside a transaction, locks it until commit.
	GetForUpdate(ctx context.Context, id uuid.UUID) (Book, error)
	List(ctx context.Context) ([]Book, error)
	Search(ctx context.Context, query string) ([]Book, error)
	Update(ctx context.Context, book Book) (Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Book is a catalog title together with its copy counters.
type Book struct {
	ID              uuid.UUID
	Title           string
	Author          string
	Genre           string
	ISBN            string
	TotalCopies     int
	AvailableCopies int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Available reports whether at least one copy can be lent.
func (b *Book) Available() bool {
	return b.AvailableCopies > 0
}

// BorrowedCopies returns the number of copies currently lent out.
func (b *Book) BorrowedCopies() int {
	return b.TotalCopies - b.AvailableCopies
}

// Borrow takes one copy off the shelf. It does nothing and returns false
// when no copy is available.
func (b *Book) Borrow() bool {
	if !b.Available() {
		return false
	}
	b.AvailableCopies--
	return true
}

// Return puts one copy back on the shelf. It is a no-op returning false when
// the shelf is already full.
func (b *Book) Return() bool {
	if b.AvailableCopies >= b.TotalCopies {
		return false
	}
	b.AvailableCopies++
	return true
}

// ValidateCopies rejects counters where available copies exceed total copies.
func (b *Book) ValidateCopies() error {
	if b.AvailableCopies > b.TotalCopies {
		return ErrInvalidCopies
	}
	return nil
}

// Validate checks every field of the book and returns a *ValidationError
// listing all failures, or nil.
func (b *Book) Validate() error {
	var msgs []string
	if strings.TrimSpace(b.Title) == "" {
		msgs = append(msgs, "Title can't be blank")
	}
	if strings.TrimSpace(b.Author) == "" {
		msgs = append(msgs, "Author can't be blank")
	}
	if strings.TrimSpace(b.Genre) == "" {
		msgs = append(msgs, "Genre can't be blank")
	}
	if strings.TrimSpace(b.ISBN) == "" {
		msgs = append(msgs, "Isbn can't be blank")
	}
	if b.TotalCopies <= 0 {
		msgs = append(msgs, "Total copies must be greater than 0")
	}
	if b.AvailableCopies < 0 {
		msgs = append(msgs, "Available copies must be greater than or equal to 0")
	}
	if b.ValidateCopies() != nil {
		msgs = append(msgs, MsgCopiesExceedTotal)
	}
	if len(msgs) > 0 {
		return NewValidationError(msgs...)
	}
	return nil
}

// Matches reports whether query is a case-insensitive substring of the
// title, author or genre. An empty query matches every book.
func (b *Book) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.Author), q) ||
		strings.Contains(strings.ToLower(b.Genre), q)
}

// CreateBookParams contains parameters to add a book to the catalog.
// AvailableCopies defaults to TotalCopies when nil.
type CreateBookParams struct {
	Title           string
	Author          string
	Genre           string
	ISBN            string
	TotalCopies     int
	AvailableCopies *int
}

// UpdateBookParams contains a partial book edit; nil fields are left unchanged.
type UpdateBookParams struct {
	Title           *string
	Author          *string
	Genre           *string
	ISBN            *string
	TotalCopies     *int
	AvailableCopies *int
}

// Apply copies the set fields onto b.
func (p UpdateBookParams) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.TotalCopies != nil {
		b.TotalCopies = *p.TotalCopies
	}
	if p.AvailableCopies != nil {
		b.AvailableCopies = *p.AvailableCopies
	}
}

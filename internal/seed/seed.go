// Package seed loads the demo catalog, accounts and borrowings.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/library-server/internal/clock"
	"github.com/dtroode/library-server/internal/logger"
	"github.com/dtroode/library-server/internal/model"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

const (
	LibrarianEmail = "librarian@library.com"
	Member1Email   = "member1@library.com"
	Member2Email   = "member2@library.com"
)

// Accounts creates users with hashed passwords.
type Accounts interface {
	CreateLibrarian(ctx context.Context, email, password string) (model.User, error)
	Register(ctx context.Context, params model.RegisterParams) (model.Session, error)
}

// Books is the demo catalog, in insertion order.
var Books = []model.Book{
	{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Fiction", ISBN: "978-0743273565", TotalCopies: 5, AvailableCopies: 5},
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", Genre: "Fiction", ISBN: "978-0446310789", TotalCopies: 3, AvailableCopies: 3},
	{Title: "1984", Author: "George Orwell", Genre: "Science Fiction", ISBN: "978-0451524935", TotalCopies: 4, AvailableCopies: 4},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance", ISBN: "978-0141439518", TotalCopies: 2, AvailableCopies: 2},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", ISBN: "978-0547928241", TotalCopies: 6, AvailableCopies: 6},
	{Title: "The Catcher in the Rye", Author: "J.D. Salinger", Genre: "Fiction", ISBN: "978-0316769488", TotalCopies: 3, AvailableCopies: 3},
	{Title: "Lord of the Flies", Author: "William Golding", Genre: "Fiction", ISBN: "978-0399501487", TotalCopies: 4, AvailableCopies: 4},
	{Title: "Animal Farm", Author: "George Orwell", Genre: "Fiction", ISBN: "978-0451526342", TotalCopies: 3, AvailableCopies: 3},
}

// ErrAlreadySeeded is returned when the demo librarian already exists.
var ErrAlreadySeeded = errors.New("database already seeded")

// Summary counts what Run inserted.
type Summary struct {
	Users      int
	Books      int
	Borrowings int
}

// Run inserts the demo data. Borrowings are written straight to the ledger
// so that one of them can start out overdue.
func Run(ctx context.Context, store model.Store, accounts Accounts, clk clock.Clock, logger *logger.Logger) (Summary, error) {
	var summary Summary

	_, err := store.Users().GetByEmail(ctx, LibrarianEmail)
	if err == nil {
		return summary, ErrAlreadySeeded
	}
	if !errors.Is(err, model.ErrNotFound) {
		return summary, fmt.Errorf("failed to check existing data: %w", err)
	}

	if _, err := accounts.CreateLibrarian(ctx, LibrarianEmail, DefaultPassword); err != nil {
		return summary, fmt.Errorf("failed to create librarian: %w", err)
	}
	members := make([]model.User, 0, 2)
	for _, email := range []string{Member1Email, Member2Email} {
		session, err := accounts.Register(ctx, model.RegisterParams{Email: email, Password: DefaultPassword})
		if err != nil {
			return summary, fmt.Errorf("failed to register %s: %w", email, err)
		}
		members = append(members, session.User)
	}
	summary.Users = 1 + len(members)

	books := make([]model.Book, 0, len(Books))
	for _, b := range Books {
		saved, err := store.Books().Create(ctx, b)
		if err != nil {
			return summary, fmt.Errorf("failed to create book %q: %w", b.Title, err)
		}
		books = append(books, saved)
	}
	summary.Books = len(books)

	now := clk.Now()
	week := 7 * 24 * time.Hour
	loans := []struct {
		user     model.User
		book     model.Book
		borrowed time.Time
		due      time.Time
	}{
		{members[0], books[0], now.Add(-week), now.Add(week)},
		{members[0], books[len(books)-1], now.Add(-2 * week), now.Add(-24 * time.Hour)},
		{members[1], books[1], now.Add(-week), now.Add(week)},
	}
	for _, l := range loans {
		if err := lend(ctx, store, l.user, l.book, l.borrowed, l.due); err != nil {
			return summary, err
		}
		summary.Borrowings++
	}

	logger.Info("Seed: demo data loaded",
		"users", summary.Users,
		"books", summary.Books,
		"borrowings", summary.Borrowings)
	return summary, nil
}

func lend(ctx context.Context, store model.Store, user model.User, book model.Book, borrowedAt, due time.Time) error {
	return store.InTx(ctx, func(ctx context.Context, repos model.Repositories) error {
		locked, err := repos.Books().GetForUpdate(ctx, book.ID)
		if err != nil {
			return fmt.Errorf("failed to lock book: %w", err)
		}
		if !locked.Borrow() {
			return fmt.Errorf("book %q has no copies left", locked.Title)
		}
		if _, err := repos.Books().Update(ctx, locked); err != nil {
			return fmt.Errorf("failed to update book copies: %w", err)
		}
		_, err = repos.Borrowings().Create(ctx, model.Borrowing{
			UserID:     user.ID,
			BookID:     book.ID,
			BorrowedAt: borrowedAt,
			DueDate:    model.DateOf(due),
		})
		if err != nil {
			return fmt.Errorf("failed to create borrowing: %w", err)
		}
		return nil
	})
}

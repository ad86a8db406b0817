package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/library-server/internal/model"
)

func seedBook(t *testing.T, s *Store, isbn string, total, available int) model.Book {
	t.Helper()
	b, err := s.Books().Create(context.Background(), model.Book{
		Title: "Title " + isbn, Author: "Author", Genre: "Fiction", ISBN: isbn,
		TotalCopies: total, AvailableCopies: available,
	})
	require.NoError(t, err)
	return b
}

func seedUser(t *testing.T, s *Store, email string) model.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), model.User{Email: email, Role: model.RoleMember})
	require.NoError(t, err)
	return u
}

func TestStore_InTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	book := seedBook(t, s, "111", 3, 3)
	user := seedUser(t, s, "m@library.com")

	boom := errors.New("boom")
	err := s.InTx(ctx, func(ctx context.Context, repos model.Repositories) error {
		b, err := repos.Books().GetForUpdate(ctx, book.ID)
		require.NoError(t, err)
		b.Borrow()
		_, err = repos.Books().Update(ctx, b)
		require.NoError(t, err)
		_, err = repos.Borrowings().Create(ctx, model.Borrowing{UserID: user.ID, BookID: book.ID, DueDate: time.Now().Add(48 * time.Hour)})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Books().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.AvailableCopies)

	list, err := s.Borrowings().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_InTxCommits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	book := seedBook(t, s, "222", 2, 2)

	err := s.InTx(ctx, func(ctx context.Context, repos model.Repositories) error {
		b, err := repos.Books().GetForUpdate(ctx, book.ID)
		if err != nil {
			return err
		}
		b.Borrow()
		_, err = repos.Books().Update(ctx, b)
		return err
	})
	require.NoError(t, err)

	got, err := s.Books().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableCopies)
}

func TestStore_InTxCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewStore().InTx(ctx, func(ctx context.Context, repos model.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestBookRepository_Constraints(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	book := seedBook(t, s, "333", 2, 2)

	_, err := s.Books().Create(ctx, model.Book{Title: "Other", ISBN: "333", TotalCopies: 1, AvailableCopies: 1})
	assert.ErrorIs(t, err, model.ErrDuplicateISBN)

	book.AvailableCopies = 3
	_, err = s.Books().Update(ctx, book)
	assert.ErrorIs(t, err, model.ErrInconsistentCopies)

	book.AvailableCopies = -1
	_, err = s.Books().Update(ctx, book)
	assert.ErrorIs(t, err, model.ErrInconsistentCopies)

	_, err = s.Books().Update(ctx, model.Book{ID: uuid.New(), ISBN: "999", TotalCopies: 1})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBookRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	book := seedBook(t, s, "444", 2, 2)
	keep := seedBook(t, s, "555", 2, 2)
	user := seedUser(t, s, "m@library.com")

	due := time.Now().Add(72 * time.Hour)
	_, err := s.Borrowings().Create(ctx, model.Borrowing{UserID: user.ID, BookID: book.ID, DueDate: due})
	require.NoError(t, err)
	kept, err := s.Borrowings().Create(ctx, model.Borrowing{UserID: user.ID, BookID: keep.ID, DueDate: due})
	require.NoError(t, err)

	require.NoError(t, s.Books().Delete(ctx, book.ID))
	assert.ErrorIs(t, s.Books().Delete(ctx, book.ID), model.ErrNotFound)

	list, err := s.Borrowings().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)
	require.NotNil(t, list[0].Book)
	assert.Equal(t, "555", list[0].Book.ISBN)
}

func TestBookRepository_Search(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, b := range []model.Book{
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", ISBN: "1", TotalCopies: 1, AvailableCopies: 1},
		{Title: "1984", Author: "George Orwell", Genre: "Science Fiction", ISBN: "2", TotalCopies: 1, AvailableCopies: 1},
		{Title: "Animal Farm", Author: "George Orwell", Genre: "Fiction", ISBN: "3", TotalCopies: 1, AvailableCopies: 1},
	} {
		_, err := s.Books().Create(ctx, b)
		require.NoError(t, err)
	}

	books, err := s.Books().Search(ctx, "orwell")
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "1984", books[0].Title)
	assert.Equal(t, "Animal Farm", books[1].Title)

	books, err = s.Books().Search(ctx, "FICTION")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	books, err = s.Books().List(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)
}

func TestBorrowingRepository_OneActivePerPair(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	book := seedBook(t, s, "666", 5, 5)
	user := seedUser(t, s, "m@library.com")
	due := time.Now().Add(72 * time.Hour)

	first, err := s.Borrowings().Create(ctx, model.Borrowing{UserID: user.ID, BookID: book.ID, DueDate: due})
	require.NoError(t, err)

	_, err = s.Borrowings().Create(ctx, model.Borrowing{UserID: user.ID, BookID: book.ID, DueDate: due})
	assert.ErrorIs(t, err, model.ErrActiveBorrowingExists)

	_, err = s.Borrowings().MarkReturned(ctx, first.ID, time.Now())
	require.NoError(t, err)
	_, err = s.Borrowings().MarkReturned(ctx, first.ID, time.Now())
	assert.ErrorIs(t, err, model.ErrAlreadyReturned)

	_, err = s.Borrowings().Create(ctx, model.Borrowing{UserID: user.ID, BookID: book.ID, DueDate: due})
	assert.NoError(t, err)

	_, err = s.Borrowings().Create(ctx, model.Borrowing{UserID: uuid.New(), BookID: book.ID, DueDate: due})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestReportRepository(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	today := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)
	book := seedBook(t, s, "777", 5, 5)
	other := seedBook(t, s, "888", 5, 5)
	alice := seedUser(t, s, "alice@library.com")
	bob := seedUser(t, s, "bob@library.com")

	mk := func(u model.User, b model.Book, due time.Time) model.Borrowing {
		br, err := s.Borrowings().Create(ctx, model.Borrowing{UserID: u.ID, BookID: b.ID, BorrowedAt: due.AddDate(0, 0, -14), DueDate: due})
		require.NoError(t, err)
		return br
	}
	overdue := mk(alice, book, today.AddDate(0, 0, -1))
	mk(alice, other, today)
	mk(bob, book, today.AddDate(0, 0, 7))
	returned := mk(bob, other, today.AddDate(0, 0, -3))
	_, err := s.Borrowings().MarkReturned(ctx, returned.ID, today)
	require.NoError(t, err)

	reports := s.Reports()

	n, err := reports.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = reports.CountActiveBorrowings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = reports.CountDueOn(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := reports.ListOverdue(ctx, today)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, overdue.ID, list[0].ID)
	require.NotNil(t, list[0].User)
	require.NotNil(t, list[0].Book)
	assert.Equal(t, "alice@library.com", list[0].User.Email)

	list, err = reports.ListActiveByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = reports.ListOverdueByUser(ctx, bob.ID, today)
	require.NoError(t, err)
	assert.Empty(t, list)
}

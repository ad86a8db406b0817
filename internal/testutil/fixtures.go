package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtroode/library-server/internal/model"
)

// MakeBook stores a book with the given copy counters.
func MakeBook(t *testing.T, store model.Store, isbn string, total, available int) model.Book {
	t.Helper()
	book, err := store.Books().Create(context.Background(), model.Book{
		Title:           "Book " + isbn,
		Author:          "Author " + isbn,
		Genre:           "Fiction",
		ISBN:            isbn,
		TotalCopies:     total,
		AvailableCopies: available,
	})
	require.NoError(t, err)
	return book
}

// MakeUser stores a user with the given role and returns its identity.
func MakeUser(t *testing.T, store model.Store, email string, role model.Role) model.Identity {
	t.Helper()
	user, err := store.Users().Create(context.Background(), model.User{Email: email, Role: role})
	require.NoError(t, err)
	return model.Identity{UserID: user.ID, Role: user.Role}
}

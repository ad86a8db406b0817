//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/library-server/internal/model"
	repo "github.com/dtroode/library-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "library_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/library_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newStore(t *testing.T) *repo.Store {
	t.Helper()
	ctx := context.Background()

	conn, err := repo.NewConnection(ctx, dsn, repo.PoolOptions{MaxOpenConns: 20})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	reportDB, err := repo.NewReportDB(ctx, dsn, repo.PoolOptions{MaxOpenConns: 5, MaxIdleConns: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reportDB.Close() })

	return repo.NewStore(conn, reportDB)
}

func makeUser(t *testing.T, store *repo.Store, role model.Role) model.User {
	t.Helper()
	user, err := store.Users().Create(context.Background(), model.User{
		Email:        uuid.NewString() + "@library.com",
		PasswordHash: []byte("hash"),
		Role:         role,
	})
	require.NoError(t, err)
	return user
}

func makeBook(t *testing.T, store *repo.Store, total, available int) model.Book {
	t.Helper()
	book, err := store.Books().Create(context.Background(), model.Book{
		Title:           "Title " + uuid.NewString(),
		Author:          "Author",
		Genre:           "Fiction",
		ISBN:            uuid.NewString(),
		TotalCopies:     total,
		AvailableCopies: available,
	})
	require.NoError(t, err)
	return book
}

var errNoCopy = errors.New("no copy available")

// lend mirrors the borrowing service's transaction.
func lend(ctx context.Context, store *repo.Store, userID, bookID uuid.UUID, due time.Time) error {
	return store.InTx(ctx, func(ctx context.Context, repos model.Repositories) error {
		book, err := repos.Books().GetForUpdate(ctx, bookID)
		if err != nil {
			return err
		}
		if !book.Borrow() {
			return errNoCopy
		}
		if _, err := repos.Books().Update(ctx, book); err != nil {
			return err
		}
		_, err = repos.Borrowings().Create(ctx, model.Borrowing{
			UserID:     userID,
			BookID:     bookID,
			BorrowedAt: time.Now(),
			DueDate:    due,
		})
		return err
	})
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	t.Run("user_repository", func(t *testing.T) {
		u := makeUser(t, store, model.RoleMember)

		byEmail, err := store.Users().GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)
		require.Equal(t, model.RoleMember, byEmail.Role)

		byID, err := store.Users().GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, byID.Email)

		_, err = store.Users().Create(ctx, model.User{Email: u.Email, PasswordHash: []byte("x"), Role: model.RoleMember})
		require.ErrorIs(t, err, model.ErrDuplicateEmail)

		_, err = store.Users().GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("book_repository", func(t *testing.T) {
		b := makeBook(t, store, 3, 3)

		got, err := store.Books().GetByID(ctx, b.ID)
		require.NoError(t, err)
		require.Equal(t, b.ISBN, got.ISBN)

		_, err = store.Books().Create(ctx, model.Book{
			Title: "t", Author: "a", Genre: "g", ISBN: b.ISBN, TotalCopies: 1, AvailableCopies: 1,
		})
		require.ErrorIs(t, err, model.ErrDuplicateISBN)

		got.AvailableCopies = 4
		_, err = store.Books().Update(ctx, got)
		require.ErrorIs(t, err, model.ErrInconsistentCopies)

		got.AvailableCopies = 2
		updated, err := store.Books().Update(ctx, got)
		require.NoError(t, err)
		require.Equal(t, 2, updated.AvailableCopies)

		require.NoError(t, store.Books().Delete(ctx, b.ID))
		require.ErrorIs(t, store.Books().Delete(ctx, b.ID), model.ErrNotFound)
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		_, err := store.Books().Create(ctx, model.Book{
			Title: "100% Pure Code", Author: "Ann", Genre: "Tech", ISBN: uuid.NewString(), TotalCopies: 1, AvailableCopies: 1,
		})
		require.NoError(t, err)
		_, err = store.Books().Create(ctx, model.Book{
			Title: "1000 Pages", Author: "Bob", Genre: "Tech", ISBN: uuid.NewString(), TotalCopies: 1, AvailableCopies: 1,
		})
		require.NoError(t, err)

		found, err := store.Books().Search(ctx, "100%")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "100% Pure Code", found[0].Title)

		found, err = store.Books().Search(ctx, "PURE")
		require.NoError(t, err)
		require.Len(t, found, 1)
	})
}

func TestStore_BorrowingLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	user := makeUser(t, store, model.RoleMember)
	book := makeBook(t, store, 2, 2)
	due := model.DateOf(time.Now().AddDate(0, 0, 14))

	require.NoError(t, lend(ctx, store, user.ID, book.ID, due))

	err := lend(ctx, store, user.ID, book.ID, due)
	require.ErrorIs(t, err, model.ErrActiveBorrowingExists)

	got, err := store.Books().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableCopies, "failed transaction must not leave a decrement behind")

	active, err := store.Borrowings().HasActive(ctx, user.ID, book.ID)
	require.NoError(t, err)
	assert.True(t, active)

	list, err := store.Borrowings().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Book)
	assert.Equal(t, due, list[0].DueDate)

	returned, err := store.Borrowings().MarkReturned(ctx, list[0].ID, time.Now())
	require.NoError(t, err)
	assert.False(t, returned.IsActive())

	_, err = store.Borrowings().MarkReturned(ctx, list[0].ID, time.Now())
	require.ErrorIs(t, err, model.ErrAlreadyReturned)

	_, err = store.Borrowings().MarkReturned(ctx, uuid.New(), time.Now())
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, lend(ctx, store, user.ID, book.ID, due))
}

func TestStore_ConcurrentBorrowOfLastCopy(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	book := makeBook(t, store, 1, 1)
	due := model.DateOf(time.Now().AddDate(0, 0, 14))

	const borrowers = 8
	users := make([]model.User, borrowers)
	for i := range users {
		users[i] = makeUser(t, store, model.RoleMember)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			err := lend(ctx, store, userID, book.ID, due)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, errNoCopy)
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	got, err := store.Books().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableCopies)
}

func TestStore_DeleteCascadesAndReports(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	member := makeUser(t, store, model.RoleMember)
	book := makeBook(t, store, 3, 3)
	today := model.DateOf(time.Now())

	require.NoError(t, lend(ctx, store, member.ID, book.ID, today.AddDate(0, 0, -2)))

	overdue, err := store.Reports().ListOverdueByUser(ctx, member.ID, today)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, book.ID, overdue[0].Book.ID)
	assert.Equal(t, member.Email, overdue[0].User.Email)

	active, err := store.Reports().ListActiveByUser(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)

	n, err := store.Reports().CountActiveBorrowings(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	require.NoError(t, store.Books().Delete(ctx, book.ID))

	list, err := store.Borrowings().ListByUser(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

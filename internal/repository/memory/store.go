// Package memory implements the store in process memory. A single mutex
// guards every table, so a transaction sees and writes books and borrowings
// as one unit.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/library-server/internal/model"
)

var _ model.Store = (*Store)(nil)

type arena struct {
	users      map[uuid.UUID]model.User
	books      map[uuid.UUID]model.Book
	borrowings map[uuid.UUID]model.Borrowing
}

func newArena() *arena {
	return &arena{
		users:      make(map[uuid.UUID]model.User),
		books:      make(map[uuid.UUID]model.Book),
		borrowings: make(map[uuid.UUID]model.Borrowing),
	}
}

func (a *arena) clone() *arena {
	return &arena{
		users:      maps.Clone(a.users),
		books:      maps.Clone(a.books),
		borrowings: maps.Clone(a.borrowings),
	}
}

// attachBook returns br with a copy of its book attached.
func (a *arena) attachBook(br model.Borrowing) model.Borrowing {
	if book, ok := a.books[br.BookID]; ok {
		br.Book = &book
	}
	return br
}

// attachUser returns br with a copy of its user attached.
func (a *arena) attachUser(br model.Borrowing) model.Borrowing {
	if user, ok := a.users[br.UserID]; ok {
		br.User = &user
	}
	return br
}

func (a *arena) borrowingsWhere(match func(br *model.Borrowing) bool) []model.Borrowing {
	var out []model.Borrowing
	for _, br := range a.borrowings {
		if match(&br) {
			out = append(out, br)
		}
	}
	return out
}

func sortByDueDate(list []model.Borrowing) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].DueDate.Equal(list[j].DueDate) {
			return list[i].BorrowedAt.Before(list[j].BorrowedAt)
		}
		return list[i].DueDate.Before(list[j].DueDate)
	})
}

type runner func(fn func(a *arena) error) error

// Store is an in-memory model.Store.
type Store struct {
	mu   sync.Mutex
	data *arena
	now  func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		data: newArena(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) locked(fn func(a *arena) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) Users() model.UserStore {
	return &UserRepository{run: s.locked, now: s.now}
}

func (s *Store) Books() model.BookStore {
	return &BookRepository{run: s.locked, now: s.now}
}

func (s *Store) Borrowings() model.BorrowingStore {
	return &BorrowingRepository{run: s.locked, now: s.now}
}

func (s *Store) Reports() model.ReportStore {
	return &ReportRepository{run: s.locked}
}

// InTx runs fn while holding the store lock. When fn fails every write it
// made is discarded.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, repos model.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.data.clone()
	direct := func(f func(a *arena) error) error { return f(s.data) }

	if err := fn(ctx, &txRepositories{run: direct, now: s.now}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

type txRepositories struct {
	run runner
	now func() time.Time
}

func (r *txRepositories) Users() model.UserStore {
	return &UserRepository{run: r.run, now: r.now}
}

func (r *txRepositories) Books() model.BookStore {
	return &BookRepository{run: r.run, now: r.now}
}

func (r *txRepositories) Borrowings() model.BorrowingStore {
	return &BorrowingRepository{run: r.run, now: r.now}
}

package service

import (
	"testing"
	"time"

	"github.com/dtroode/library-server/internal/clock"
	"github.com/dtroode/library-server/internal/model"
	"github.com/dtroode/library-server/internal/repository/memory"
	"github.com/dtroode/library-server/internal/testutil"
)

const loanDays = 14

var startOfTest = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store     *memory.Store
	clock     *clock.Fixed
	librarian model.Identity
	member    model.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	return &fixture{
		store:     store,
		clock:     clock.NewFixed(startOfTest),
		librarian: testutil.MakeUser(t, store, "librarian@library.com", model.RoleLibrarian),
		member:    testutil.MakeUser(t, store, "member1@library.com", model.RoleMember),
	}
}

func (f *fixture) borrowings() *Borrowing {
	return NewBorrowing(f.store, f.clock, loanDays, testutil.MakeNoopLogger())
}

func (f *fixture) books() *Book {
	return NewBook(f.store, testutil.MakeNoopLogger())
}

func (f *fixture) reports(storage model.Storage) *Report {
	return NewReport(f.store, f.clock, storage, testutil.MakeNoopLogger())
}

func ptr[T any](v T) *T {
	return &v
}

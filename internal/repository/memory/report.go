package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/library-server/internal/model"
)

var _ model.ReportStore = (*ReportRepository)(nil)

type ReportRepository struct {
	run runner
}

func (r *ReportRepository) CountBooks(ctx context.Context) (int, error) {
	var n int
	err := r.run(func(a *arena) error {
		n = len(a.books)
		return nil
	})
	return n, err
}

func (r *ReportRepository) CountActiveBorrowings(ctx context.Context) (int, error) {
	return r.count(func(br *model.Borrowing) bool { return br.IsActive() })
}

func (r *ReportRepository) CountDueOn(ctx context.Context, day time.Time) (int, error) {
	return r.count(func(br *model.Borrowing) bool { return br.IsDueOn(day) })
}

func (r *ReportRepository) ListOverdue(ctx context.Context, today time.Time) ([]model.Borrowing, error) {
	var list []model.Borrowing
	err := r.run(func(a *arena) error {
		for _, br := range a.borrowingsWhere(func(br *model.Borrowing) bool { return br.IsOverdue(today) }) {
			list = append(list, a.attachUser(a.attachBook(br)))
		}
		return nil
	})
	sortByDueDate(list)
	return list, err
}

func (r *ReportRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.Borrowing, error) {
	return r.listForUser(func(br *model.Borrowing) bool {
		return br.UserID == userID && br.IsActive()
	})
}

func (r *ReportRepository) ListOverdueByUser(ctx context.Context, userID uuid.UUID, today time.Time) ([]model.Borrowing, error) {
	return r.listForUser(func(br *model.Borrowing) bool {
		return br.UserID == userID && br.IsOverdue(today)
	})
}

func (r *ReportRepository) count(match func(br *model.Borrowing) bool) (int, error) {
	var n int
	err := r.run(func(a *arena) error {
		n = len(a.borrowingsWhere(match))
		return nil
	})
	return n, err
}

func (r *ReportRepository) listForUser(match func(br *model.Borrowing) bool) ([]model.Borrowing, error) {
	var list []model.Borrowing
	err := r.run(func(a *arena) error {
		for _, br := range a.borrowingsWhere(match) {
			list = append(list, a.attachBook(br))
		}
		return nil
	})
	sortByDueDate(list)
	return list, err
}

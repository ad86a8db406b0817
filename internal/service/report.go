package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/library-server/internal/clock"
	"github.com/dtroode/library-server/internal/logger"
	"github.com/dtroode/library-server/internal/model"
	"github.com/dtroode/library-server/internal/policy"
)

var overdueReportHeader = []string{
	"borrowing_id", "member_email", "book_title", "book_isbn", "borrowed_at", "due_date", "days_overdue",
}

type Report struct {
	store   model.Store
	clock   clock.Clock
	storage model.Storage
	logger  *logger.Logger
}

// NewReport creates the reporting service. storage may be nil, in which
// case exports are unavailable.
func NewReport(store model.Store, clk clock.Clock, storage model.Storage, logger *logger.Logger) *Report {
	return &Report{
		store:   store,
		clock:   clk,
		storage: storage,
		logger:  logger,
	}
}

// Today is the current lending calendar date.
func (s *Report) Today() time.Time {
	return s.clock.Today()
}

func (s *Report) Dashboard(ctx context.Context, identity model.Identity) (model.Dashboard, error) {
	if err := policy.Authorize(identity.Role, policy.ActionViewDashboard); err != nil {
		return model.Dashboard{}, err
	}

	today := s.clock.Today()
	reports := s.store.Reports()

	if identity.Role != model.RoleLibrarian {
		active, err := reports.ListActiveByUser(ctx, identity.UserID)
		if err != nil {
			return model.Dashboard{}, fmt.Errorf("failed to list active borrowings: %w", err)
		}
		overdue, err := reports.ListOverdueByUser(ctx, identity.UserID, today)
		if err != nil {
			return model.Dashboard{}, fmt.Errorf("failed to list overdue borrowings: %w", err)
		}
		return model.Dashboard{
			Role:   identity.Role,
			Member: &model.MemberDashboard{Active: active, Overdue: overdue},
		}, nil
	}

	totalBooks, err := reports.CountBooks(ctx)
	if err != nil {
		return model.Dashboard{}, fmt.Errorf("failed to count books: %w", err)
	}
	totalBorrowed, err := reports.CountActiveBorrowings(ctx)
	if err != nil {
		return model.Dashboard{}, fmt.Errorf("failed to count active borrowings: %w", err)
	}
	dueToday, err := reports.CountDueOn(ctx, today)
	if err != nil {
		return model.Dashboard{}, fmt.Errorf("failed to count borrowings due today: %w", err)
	}
	overdue, err := reports.ListOverdue(ctx, today)
	if err != nil {
		return model.Dashboard{}, fmt.Errorf("failed to list overdue borrowings: %w", err)
	}

	return model.Dashboard{
		Role: identity.Role,
		Librarian: &model.LibrarianDashboard{
			TotalBooks:    totalBooks,
			TotalBorrowed: totalBorrowed,
			DueToday:      dueToday,
			Overdue:       overdue,
		},
	}, nil
}

// OverdueMembers lists every overdue borrowing with its member and book.
func (s *Report) OverdueMembers(ctx context.Context, identity model.Identity) ([]model.Borrowing, error) {
	if err := policy.Authorize(identity.Role, policy.ActionViewOverdue); err != nil {
		return nil, err
	}

	overdue, err := s.store.Reports().ListOverdue(ctx, s.clock.Today())
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue borrowings: %w", err)
	}
	return overdue, nil
}

func (s *Report) SearchBooks(ctx context.Context, identity model.Identity, query string) ([]model.Book, error) {
	if err := policy.Authorize(identity.Role, policy.ActionViewBooks); err != nil {
		return nil, err
	}

	books, err := s.store.Books().Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	return books, nil
}

// ExportOverdue renders the overdue report as CSV and archives it.
func (s *Report) ExportOverdue(ctx context.Context, identity model.Identity) (model.ReportExport, error) {
	if err := policy.Authorize(identity.Role, policy.ActionExportReports); err != nil {
		return model.ReportExport{}, err
	}
	if s.storage == nil {
		return model.ReportExport{}, model.ErrStorageDisabled
	}

	today := s.clock.Today()
	overdue, err := s.store.Reports().ListOverdue(ctx, today)
	if err != nil {
		return model.ReportExport{}, fmt.Errorf("failed to list overdue borrowings: %w", err)
	}

	body, err := renderOverdueCSV(overdue, today)
	if err != nil {
		return model.ReportExport{}, fmt.Errorf("failed to render overdue report: %w", err)
	}

	key := fmt.Sprintf("%s%s-%s.csv", model.OverdueReportPrefix, today.Format(time.DateOnly), uuid.NewString())
	if err := s.storage.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), "text/csv"); err != nil {
		s.logger.Error("Report service: failed to upload overdue report", "key", key, "error", err.Error())
		return model.ReportExport{}, fmt.Errorf("failed to upload overdue report: %w", err)
	}

	s.logger.Info("Report service: overdue report exported", "key", key, "count", len(overdue), "librarian_id", identity.UserID)
	return model.ReportExport{
		Key:       key,
		Count:     len(overdue),
		CreatedAt: s.clock.Now(),
	}, nil
}

// OpenExport streams an archived report. The caller closes the reader.
func (s *Report) OpenExport(ctx context.Context, identity model.Identity, key string) (io.ReadCloser, error) {
	if err := s.checkExportKey(identity, key); err != nil {
		return nil, err
	}

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check report: %w", err)
	}
	if !exists {
		return nil, model.ErrNotFound
	}

	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download report: %w", err)
	}
	return rc, nil
}

// DeleteExport removes an archived report.
func (s *Report) DeleteExport(ctx context.Context, identity model.Identity, key string) error {
	if err := s.checkExportKey(identity, key); err != nil {
		return err
	}

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check report: %w", err)
	}
	if !exists {
		return model.ErrNotFound
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	s.logger.Info("Report service: overdue report deleted", "key", key, "librarian_id", identity.UserID)
	return nil
}

func (s *Report) checkExportKey(identity model.Identity, key string) error {
	if err := policy.Authorize(identity.Role, policy.ActionExportReports); err != nil {
		return err
	}
	if s.storage == nil {
		return model.ErrStorageDisabled
	}
	if !strings.HasPrefix(key, model.OverdueReportPrefix) || strings.Contains(key, "..") {
		return model.ErrNotFound
	}
	return nil
}

func renderOverdueCSV(overdue []model.Borrowing, today time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(overdueReportHeader); err != nil {
		return nil, err
	}
	for _, br := range overdue {
		var email, title, isbn string
		if br.User != nil {
			email = br.User.Email
		}
		if br.Book != nil {
			title, isbn = br.Book.Title, br.Book.ISBN
		}
		record := []string{
			br.ID.String(),
			email,
			title,
			isbn,
			br.BorrowedAt.UTC().Format(time.RFC3339),
			br.DueDate.Format(time.DateOnly),
			strconv.Itoa(br.DaysOverdue(today)),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

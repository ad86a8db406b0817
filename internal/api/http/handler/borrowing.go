package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/dtroode/library-server/internal/api/http/response"
	"github.com/dtroode/library-server/internal/logger"
	"github.com/dtroode/library-server/internal/model"
)

// BorrowingService defines ledger operations.
type BorrowingService interface {
	Create(ctx context.Context, identity model.Identity, params model.CreateBorrowingParams) (model.Borrowing, error)
	Return(ctx context.Context, identity model.Identity, id uuid.UUID) (model.Borrowing, error)
	Get(ctx context.Context, identity model.Identity, id uuid.UUID) (model.Borrowing, error)
	List(ctx context.Context, identity model.Identity) ([]model.Borrowing, error)
	Today() time.Time
}

// ReportService defines the read-only circulation views.
type ReportService interface {
	Dashboard(ctx context.Context, identity model.Identity) (model.Dashboard, error)
	OverdueMembers(ctx context.Context, identity model.Identity) ([]model.Borrowing, error)
	Today() time.Time
}

// Borrowing handles the ledger endpoints.
type Borrowing struct {
	borrowingService BorrowingService
	reportService    ReportService
	contextManager   model.ContextManager
	logger           *logger.Logger
}

// NewBorrowing creates a new Borrowing handler.
func NewBorrowing(
	borrowingService BorrowingService,
	reportService ReportService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Borrowing {
	return &Borrowing{
		borrowingService: borrowingService,
		reportService:    reportService,
		contextManager:   contextManager,
		logger:           logger,
	}
}

type createBorrowingRequest struct {
	BookID  string `json:"book_id"`
	DueDate string `json:"due_date"`
}

func (req createBorrowingRequest) params() (model.CreateBorrowingParams, error) {
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		return model.CreateBorrowingParams{}, model.ErrNotFound
	}

	params := model.CreateBorrowingParams{BookID: bookID}
	if req.DueDate != "" {
		due, err := time.Parse(time.DateOnly, req.DueDate)
		if err != nil {
			return model.CreateBorrowingParams{}, fmt.Errorf("%w: due_date must be formatted as YYYY-MM-DD", response.ErrBadRequest)
		}
		params.DueDate = &due
	}
	return params, nil
}

// List returns the caller's borrowings, newest first.
func (h *Borrowing) List(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	list, err := h.borrowingService.List(r.Context(), caller)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := response.WriteJSON(w, http.StatusOK, newBorrowingListResponse(list, h.borrowingService.Today())); err != nil {
		handleError(w, r, h.logger, err)
	}
}

// Show returns one borrowing. The dashboard and overdue report share its route.
func (h *Borrowing) Show(w http.ResponseWriter, r *http.Request) {
	switch httprouter.ParamsFromContext(r.Context()).ByName("id") {
	case "dashboard":
		h.Dashboard(w, r)
		return
	case "overdue_members":
		h.OverdueMembers(w, r)
		return
	}

	caller, err := identity(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	id, err := readIDParam(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	borrowing, err := h.borrowingService.Get(r.Context(), caller, id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := response.WriteJSON(w, http.StatusOK, newBorrowingResponse(borrowing, h.borrowingService.Today())); err != nil {
		handleError(w, r, h.logger, err)
	}
}

// Create lends a book to the caller.
func (h *Borrowing) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req createBorrowingRequest
	if err := response.ReadJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	params, err := req.params()
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	borrowing, err := h.borrowingService.Create(r.Context(), caller, params)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/borrowings/"+borrowing.ID.String())
	if err := response.WriteJSON(w, http.StatusCreated, newBorrowingResponse(borrowing, h.borrowingService.Today())); err != nil {
		handleError(w, r, h.logger, err)
	}
}

// Return closes a borrowing and restocks the copy.
func (h *Borrowing) Return(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	id, err := readIDParam(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	borrowing, err := h.borrowingService.Return(r.Context(), caller, id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	body := response.Envelope{
		"message":   "Book returned successfully",
		"borrowing": newBorrowingResponse(borrowing, h.borrowingService.Today()),
	}
	if err := response.WriteJSON(w, http.StatusOK, body); err != nil {
		handleError(w, r, h.logger, err)
	}
}

// Dashboard returns the role-specific landing view.
func (h *Borrowing) Dashboard(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	dashboard, err := h.reportService.Dashboard(r.Context(), caller)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := response.WriteJSON(w, http.StatusOK, newDashboardResponse(dashboard, h.reportService.Today())); err != nil {
		handleError(w, r, h.logger, err)
	}
}

// OverdueMembers lists every overdue borrowing with its member.
func (h *Borrowing) OverdueMembers(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	overdue, err := h.reportService.OverdueMembers(r.Context(), caller)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := response.WriteJSON(w, http.StatusOK, newBorrowingListResponse(overdue, h.reportService.Today())); err != nil {
		handleError(w, r, h.logger, err)
	}
}

package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/dtroode/library-server/internal/api/http/response"
	"github.com/dtroode/library-server/internal/logger"
	"github.com/dtroode/library-server/internal/model"
)

// BookService defines catalog operations.
type BookService interface {
	List(ctx context.Context, identity model.Identity, query string) ([]model.Book, error)
	Get(ctx context.Context, identity model.Identity, id uuid.UUID) (model.Book, error)
	Create(ctx context.Context, identity model.Identity, params model.CreateBookParams) (model.Book, error)
	Update(ctx context.Context, identity model.Identity, id uuid.UUID, params model.UpdateBookParams) (model.Book, error)
	Delete(ctx context.Context, identity model.Identity, id uuid.UUID) error
}

// BookSearcher runs the catalog search used by /books/search.
type BookSearcher interface {
	SearchBooks(ctx context.Context, identity model.Identity, query string) ([]model.Book, error)
}

// Book handles the catalog endpoints.
type Book struct {
	bookService    BookService
	searcher       BookSearcher
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewBook creates a new Book handler.
func NewBook(bookService BookService, searcher BookSearcher, contextManager model.ContextManager, logger *logger.Logger) *Book {
	return &Book{
		bookService:    bookService,
		searcher:       searcher,
		contextManager: contextManager,
		logger:         logger,
	}
}

type bookRequest struct {
	Book struct {
		Title           *string `json:"title"`
		Author          *string `json:"author"`
		Genre           *string `json:"genre"`
		ISBN            *string `json:"isbn"`
		TotalCopies     *int    `json:"total_copies"`
		AvailableCopies *int    `json:"available_copies"`
	} `json:"book"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// List returns the catalog, filtered by ?search= when present.
func (h *Book) List(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	books, err := h.bookService.List(r.Context(), id, r.URL.Query().Get("search"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := response.WriteJSON(w, http.StatusOK, newBookListResponse(books)); err != nil {
		handleError(w, r, h.logger, err)
	}
}

// Show returns one book. GET /books/search shares the route with it.
func (h *Book) Show(w http.ResponseWriter, r *http.Request) {
	if httprouter.ParamsFromContext(r.Context()).ByName("id") == "search" {
		h.Search(w, r)
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

	book, err := h.bookService.Get(r.Context(), caller, id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := response.WriteJSON(w, http.StatusOK, newBookResponse(book)); err != nil {
		handleError(w, r, h.logger, err)
	}
}

// Search matches ?query= against title, author and genre.
func (h *Book) Search(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	books, err := h.searcher.SearchBooks(r.Context(), caller, r.URL.Query().Get("query"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := response.WriteJSON(w, http.StatusOK, newBookListResponse(books)); err != nil {
		handleError(w, r, h.logger, err)
	}
}

// Create adds a book to the catalog.
func (h *Book) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req bookRequest
	if err := response.ReadJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	book, err := h.bookService.Create(r.Context(), caller, model.CreateBookParams{
		Title:           deref(req.Book.Title),
		Author:          deref(req.Book.Author),
		Genre:           deref(req.Book.Genre),
		ISBN:            deref(req.Book.ISBN),
		TotalCopies:     deref(req.Book.TotalCopies),
		AvailableCopies: req.Book.AvailableCopies,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/books/"+book.ID.String())
	if err := response.WriteJSON(w, http.StatusCreated, newBookResponse(book)); err != nil {
		handleError(w, r, h.logger, err)
	}
}

// Update applies a partial edit. It serves both PUT and PATCH.
func (h *Book) Update(w http.ResponseWriter, r *http.Request) {
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

	var req bookRequest
	if err := response.ReadJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	book, err := h.bookService.Update(r.Context(), caller, id, model.UpdateBookParams{
		Title:           req.Book.Title,
		Author:          req.Book.Author,
		Genre:           req.Book.Genre,
		ISBN:            req.Book.ISBN,
		TotalCopies:     req.Book.TotalCopies,
		AvailableCopies: req.Book.AvailableCopies,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := response.WriteJSON(w, http.StatusOK, newBookResponse(book)); err != nil {
		handleError(w, r, h.logger, err)
	}
}

// Delete removes a book together with its borrowings.
func (h *Book) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.bookService.Delete(r.Context(), caller, id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

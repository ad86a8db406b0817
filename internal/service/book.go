package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/library-server/internal/logger"
	"github.com/dtroode/library-server/internal/model"
	"github.com/dtroode/library-server/internal/policy"
)

type Book struct {
	store  model.Store
	logger *logger.Logger
}

func NewBook(store model.Store, logger *logger.Logger) *Book {
	return &Book{
		store:  store,
		logger: logger,
	}
}

// List returns the catalog ordered by title, narrowed by query when set.
func (s *Book) List(ctx context.Context, identity model.Identity, query string) ([]model.Book, error) {
	if err := policy.Authorize(identity.Role, policy.ActionViewBooks); err != nil {
		return nil, err
	}

	books, err := s.store.Books().Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	return books, nil
}

func (s *Book) Get(ctx context.Context, identity model.Identity, id uuid.UUID) (model.Book, error) {
	if err := policy.Authorize(identity.Role, policy.ActionViewBooks); err != nil {
		return model.Book{}, err
	}

	book, err := s.store.Books().GetByID(ctx, id)
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to get book by id: %w", err)
	}
	return book, nil
}

func (s *Book) Create(ctx context.Context, identity model.Identity, params model.CreateBookParams) (model.Book, error) {
	if err := policy.Authorize(identity.Role, policy.ActionManageBooks); err != nil {
		return model.Book{}, err
	}

	book := model.Book{
		Title:           params.Title,
		Author:          params.Author,
		Genre:           params.Genre,
		ISBN:            params.ISBN,
		TotalCopies:     params.TotalCopies,
		AvailableCopies: params.TotalCopies,
	}
	if params.AvailableCopies != nil {
		book.AvailableCopies = *params.AvailableCopies
	}

	if err := book.Validate(); err != nil {
		return model.Book{}, err
	}

	saved, err := s.store.Books().Create(ctx, book)
	if err != nil {
		return model.Book{}, s.storeError("create", err)
	}

	s.logger.Info("Book service: book created", "book_id", saved.ID, "isbn", saved.ISBN, "librarian_id", identity.UserID)
	return saved, nil
}

// Update applies a partial edit under the book's row lock and re-validates
// the whole record.
func (s *Book) Update(ctx context.Context, identity model.Identity, id uuid.UUID, params model.UpdateBookParams) (model.Book, error) {
	if err := policy.Authorize(identity.Role, policy.ActionManageBooks); err != nil {
		return model.Book{}, err
	}

	var saved model.Book
	err := s.store.InTx(ctx, func(ctx context.Context, repos model.Repositories) error {
		book, err := repos.Books().GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get book by id: %w", err)
		}

		params.Apply(&book)
		if err := book.Validate(); err != nil {
			return err
		}

		saved, err = repos.Books().Update(ctx, book)
		return err
	})
	if err != nil {
		return model.Book{}, s.storeError("update", err)
	}

	s.logger.Info("Book service: book updated", "book_id", saved.ID, "librarian_id", identity.UserID)
	return saved, nil
}

// Delete removes the book and every borrowing that references it.
func (s *Book) Delete(ctx context.Context, identity model.Identity, id uuid.UUID) error {
	if err := policy.Authorize(identity.Role, policy.ActionManageBooks); err != nil {
		return err
	}

	if err := s.store.Books().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	s.logger.Info("Book service: book deleted", "book_id", id, "librarian_id", identity.UserID)
	return nil
}

// storeError turns constraint failures into client-facing validation errors.
func (s *Book) storeError(op string, err error) error {
	if _, ok := model.AsValidationError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, model.ErrDuplicateISBN):
		return model.NewValidationError(model.MsgISBNTaken)
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrInconsistentCopies):
		return err
	}
	s.logger.Error("Book service: store failure", "op", op, "error", err.Error())
	return fmt.Errorf("failed to %s book: %w", op, err)
}

package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	httpcontext "github.com/dtroode/library-server/internal/api/http/context"
	"github.com/dtroode/library-server/internal/model"
)

var (
	testToday = time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	librarian = model.Identity{UserID: uuid.MustParse("6d0f0b1e-2f6a-4a57-8d3c-5a8a6f1a0001"), Role: model.RoleLibrarian}
	member    = model.Identity{UserID: uuid.MustParse("6d0f0b1e-2f6a-4a57-8d3c-5a8a6f1a0002"), Role: model.RoleMember}
)

type requestOption func(*http.Request) *http.Request

func withIdentity(id model.Identity) requestOption {
	return func(r *http.Request) *http.Request {
		ctx := httpcontext.NewManager().SetIdentityToContext(r.Context(), id)
		return r.WithContext(ctx)
	}
}

func withParam(key, value string) requestOption {
	return func(r *http.Request) *http.Request {
		params, _ := r.Context().Value(httprouter.ParamsKey).(httprouter.Params)
		params = append(params, httprouter.Param{Key: key, Value: value})
		return r.WithContext(context.WithValue(r.Context(), httprouter.ParamsKey, params))
	}
}

func newRequest(method, target, body string, opts ...requestOption) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reader)
	for _, opt := range opts {
		r = opt(r)
	}
	return r
}

func sampleBook() model.Book {
	return model.Book{
		ID:              uuid.MustParse("0b8f7a52-9d0e-4c55-9a6e-1f6d2f3c0001"),
		Title:           "The Hobbit",
		Author:          "J.R.R. Tolkien",
		Genre:           "Fantasy",
		ISBN:            "978-0547928227",
		TotalCopies:     3,
		AvailableCopies: 2,
		CreatedAt:       testToday,
		UpdatedAt:       testToday,
	}
}

func sampleBorrowing(due time.Time) model.Borrowing {
	book := sampleBook()
	return model.Borrowing{
		ID:         uuid.MustParse("3c1e6d4a-7b2f-4e8a-9c5d-2a1b3c4d0001"),
		UserID:     member.UserID,
		BookID:     book.ID,
		BorrowedAt: due.AddDate(0, 0, -14),
		DueDate:    due,
		Book:       &book,
	}
}

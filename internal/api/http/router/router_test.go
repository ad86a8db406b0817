package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/dtroode/library-server/internal/api/http/context"
	"github.com/dtroode/library-server/internal/api/http/middleware"
	"github.com/dtroode/library-server/internal/clock"
	"github.com/dtroode/library-server/internal/model"
	"github.com/dtroode/library-server/internal/repository/memory"
	"github.com/dtroode/library-server/internal/service"
	"github.com/dtroode/library-server/internal/testutil"
	"github.com/dtroode/library-server/internal/token"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type testAPI struct {
	handler http.Handler
	auth    *service.Auth
}

func newTestAPI(t *testing.T, opts Options) *testAPI {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	store := memory.NewStore()
	clk := clock.NewFixed(time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))

	auth := service.NewAuth(store.Users(), token.NewJWT("test-secret", time.Hour), lg, false)
	r := New(
		auth,
		service.NewBook(store, lg),
		service.NewBorrowing(store, clk, model.DefaultLoanDays, lg),
		service.NewReport(store, clk, nil, lg),
		httpcontext.NewManager(),
		opts,
		lg,
	)
	return &testAPI{handler: r.Register(), auth: auth}
}

func (a *testAPI) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func (a *testAPI) librarianToken(t *testing.T) string {
	t.Helper()

	_, err := a.auth.CreateLibrarian(context.Background(), "librarian@library.com", "password123")
	require.NoError(t, err)

	rec := a.do(t, http.MethodPost, "/login", "", `{"email":"librarian@library.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var session struct {
		Token string `json:"token"`
	}
	decode(t, rec, &session)
	return session.Token
}

func (a *testAPI) memberToken(t *testing.T, email string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/register", "", `{"user":{"email":"`+email+`","password":"password123"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var session struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	decode(t, rec, &session)
	require.Equal(t, "member", session.User.Role)
	return session.Token
}

func TestRouter_PublicRoutes(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, Options{Version: "test"})

	rec := api.do(t, http.MethodGet, "/healthcheck", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"available","version":"test"}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = api.do(t, http.MethodDelete, "/borrowings", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = api.do(t, http.MethodGet, "/books", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Missing token"}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/books", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
}

func TestRouter_LendingFlow(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, Options{})
	librarian := api.librarianToken(t)
	reader := api.memberToken(t, "member1@library.com")

	rec := api.do(t, http.MethodPost, "/books", reader, `{"book":{"title":"Dune","author":"Frank Herbert","genre":"Science Fiction","isbn":"978-0441172719","total_copies":1}}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPost, "/books", librarian, `{"book":{"title":"Dune","author":"Frank Herbert","genre":"Science Fiction","isbn":"978-0441172719","total_copies":1}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var book struct {
		ID              string `json:"id"`
		AvailableCopies int    `json:"available_copies"`
	}
	decode(t, rec, &book)
	assert.Equal(t, 1, book.AvailableCopies)

	rec = api.do(t, http.MethodGet, "/books/search?query=herbert", reader, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Dune"`)

	rec = api.do(t, http.MethodPost, "/borrowings", reader, `{"book_id":"`+book.ID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var borrowing struct {
		ID      string `json:"id"`
		DueDate string `json:"due_date"`
	}
	decode(t, rec, &borrowing)
	assert.Equal(t, "2024-03-24", borrowing.DueDate)

	rec = api.do(t, http.MethodPost, "/borrowings", reader, `{"book_id":"`+book.ID+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"errors":["You have already borrowed this book","This book is not available for borrowing"]}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/borrowings/dashboard", reader, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"my_borrowings":[{`)

	rec = api.do(t, http.MethodGet, "/borrowings/dashboard", librarian, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_books":1`)
	assert.Contains(t, rec.Body.String(), `"total_borrowed":1`)

	rec = api.do(t, http.MethodGet, "/borrowings/overdue_members", reader, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPatch, "/borrowings/"+borrowing.ID+"/return_book", reader, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPatch, "/borrowings/"+borrowing.ID+"/return_book", librarian, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"message":"Book returned successfully"`)

	rec = api.do(t, http.MethodPatch, "/borrowings/"+borrowing.ID+"/return_book", librarian, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"Book already returned"}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/books/"+book.ID, reader, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &book)
	assert.Equal(t, 1, book.AvailableCopies)

	rec = api.do(t, http.MethodPost, "/reports/overdue", librarian, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = api.do(t, http.MethodDelete, "/books/"+book.ID, librarian, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/borrowings/"+borrowing.ID, librarian, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, Options{RateLimit: middleware.NewRateLimit(0.001, 1, testutil.MakeNoopLogger())})

	rec := api.do(t, http.MethodGet, "/healthcheck", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/healthcheck", "", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/dtroode/library-server/internal/api/http/handler"
	"github.com/dtroode/library-server/internal/api/http/middleware"
	"github.com/dtroode/library-server/internal/api/http/response"
	"github.com/dtroode/library-server/internal/logger"
	"github.com/dtroode/library-server/internal/model"
	"github.com/dtroode/library-server/internal/service"
)

// Router represents the HTTP router of the library API.
// It wires handlers, authentication and the middleware chain.
type Router struct {
	authService      *service.Auth
	bookService      *service.Book
	borrowingService *service.Borrowing
	reportService    *service.Report
	pinger           handler.Pinger
	rateLimit        *middleware.RateLimit
	contextManager   model.ContextManager
	version          string
	logger           *logger.Logger
}

// Options carries the optional router collaborators.
type Options struct {
	// Pinger backs /healthcheck; nil reports the service as available.
	Pinger handler.Pinger
	// RateLimit limits requests per client IP; nil disables limiting.
	RateLimit *middleware.RateLimit
	Version   string
}

// New creates a new HTTP Router instance.
func New(
	authService *service.Auth,
	bookService *service.Book,
	borrowingService *service.Borrowing,
	reportService *service.Report,
	contextManager model.ContextManager,
	opts Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:      authService,
		bookService:      bookService,
		borrowingService: borrowingService,
		reportService:    reportService,
		pinger:           opts.Pinger,
		rateLimit:        opts.RateLimit,
		contextManager:   contextManager,
		version:          opts.Version,
		logger:           logger,
	}
}

// Register builds the routing table and wraps it in the middleware chain:
// recover, logging, rate limit, then the router itself.
func (r *Router) Register() http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "the requested resource could not be found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "the "+req.Method+" method is not supported for this resource")
	})

	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)
	protected := authenticate.HandleFunc

	r.registerHealthRoutes(router)
	r.registerAuthRoutes(router, protected)
	r.registerBookRoutes(router, protected)
	r.registerBorrowingRoutes(router, protected)
	r.registerReportRoutes(router, protected)

	var h http.Handler = router
	if r.rateLimit != nil {
		h = r.rateLimit.Handle(h)
	}
	h = middleware.NewLogging(r.logger).Handle(h)
	h = middleware.NewRecover(r.logger).Handle(h)
	return h
}

type wrapFunc func(http.HandlerFunc) http.Handler

func (r *Router) registerHealthRoutes(router *httprouter.Router) {
	health := handler.NewHealth(r.pinger, r.version, r.logger)
	router.HandlerFunc(http.MethodGet, "/healthcheck", health.Check)
}

func (r *Router) registerAuthRoutes(router *httprouter.Router, protected wrapFunc) {
	auth := handler.NewAuth(r.authService, r.contextManager, r.logger)
	router.HandlerFunc(http.MethodPost, "/register", auth.Register)
	router.HandlerFunc(http.MethodPost, "/login", auth.Login)
	router.Handler(http.MethodPost, "/logout", protected(auth.Logout))
}

// Collection actions (search, dashboard, overdue_members) share the :id
// segment since httprouter cannot mix static and wildcard children.
func (r *Router) registerBookRoutes(router *httprouter.Router, protected wrapFunc) {
	books := handler.NewBook(r.bookService, r.reportService, r.contextManager, r.logger)
	router.Handler(http.MethodGet, "/books", protected(books.List))
	router.Handler(http.MethodPost, "/books", protected(books.Create))
	router.Handler(http.MethodGet, "/books/:id", protected(books.Show))
	router.Handler(http.MethodPut, "/books/:id", protected(books.Update))
	router.Handler(http.MethodPatch, "/books/:id", protected(books.Update))
	router.Handler(http.MethodDelete, "/books/:id", protected(books.Delete))
}

func (r *Router) registerBorrowingRoutes(router *httprouter.Router, protected wrapFunc) {
	borrowings := handler.NewBorrowing(r.borrowingService, r.reportService, r.contextManager, r.logger)
	router.Handler(http.MethodGet, "/borrowings", protected(borrowings.List))
	router.Handler(http.MethodPost, "/borrowings", protected(borrowings.Create))
	router.Handler(http.MethodGet, "/borrowings/:id", protected(borrowings.Show))
	router.Handler(http.MethodPatch, "/borrowings/:id/return_book", protected(borrowings.Return))
	router.Handler(http.MethodPut, "/borrowings/:id/return_book", protected(borrowings.Return))
}

func (r *Router) registerReportRoutes(router *httprouter.Router, protected wrapFunc) {
	reports := handler.NewReport(r.reportService, r.contextManager, r.logger)
	router.Handler(http.MethodPost, "/reports/overdue", protected(reports.Export))
	router.Handler(http.MethodGet, "/reports/overdue/*key", protected(reports.Download))
	router.Handler(http.MethodDelete, "/reports/overdue/*key", protected(reports.Delete))
}

package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/library-server/internal/api/http/response"
	"github.com/dtroode/library-server/internal/logger"
	"github.com/dtroode/library-server/internal/model"
)

// AuthService defines user registration, login and logout operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.Session, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
	Logout(ctx context.Context, identity model.Identity) error
}

// Auth handles the authentication endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type registerRequest struct {
	User struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	} `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a member (or, when enabled, a librarian) and returns a token.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := response.ReadJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	session, err := h.authService.Register(r.Context(), model.RegisterParams{
		Email:    req.User.Email,
		Password: req.User.Password,
		Role:     req.User.Role,
	})
	if err != nil {
		h.logger.Debug("Auth handler: registration rejected",
			"email", req.User.Email,
			"error", err.Error())
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Auth handler: user registered",
		"user_id", session.User.ID,
		"role", session.User.Role)

	h.writeSession(w, r, http.StatusCreated, session)
}

// Login exchanges email and password for a token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := response.ReadJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, session)
}

// Logout acknowledges the end of a session. Tokens are stateless and simply
// expire.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := h.authService.Logout(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := response.WriteJSON(w, http.StatusOK, response.Envelope{"message": "Logged out successfully"}); err != nil {
		handleError(w, r, h.logger, err)
	}
}

func (h *Auth) writeSession(w http.ResponseWriter, r *http.Request, status int, session model.Session) {
	body := sessionResponse{
		User:  newUserResponse(session.User),
		Token: session.AccessToken,
	}
	if err := response.WriteJSON(w, status, body); err != nil {
		handleError(w, r, h.logger, err)
	}
}

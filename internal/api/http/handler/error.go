package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/dtroode/library-server/internal/api/http/response"
	"github.com/dtroode/library-server/internal/logger"
	"github.com/dtroode/library-server/internal/model"
)

const (
	msgNotFound    = "Record not found"
	msgInternal    = "the server encountered a problem and could not process your request"
	msgConflict    = "the request conflicts with the current state of the record"
	msgUnavailable = "report storage is not configured"
	msgInvalidAuth = "Invalid token"
)

// handleError writes the response for a service error.
func handleError(w http.ResponseWriter, r *http.Request, logger *logger.Logger, err error) {
	if vErr, ok := model.AsValidationError(err); ok {
		response.Errors(w, http.StatusUnprocessableEntity, vErr.Messages)
		return
	}

	switch {
	case errors.Is(err, response.ErrBadRequest):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrAlreadyReturned):
		response.Error(w, http.StatusUnprocessableEntity, model.MsgAlreadyReturned)
	case errors.Is(err, model.ErrForbidden):
		response.Error(w, http.StatusForbidden, model.MsgLibrarianOnly)
	case errors.Is(err, model.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, model.MsgInvalidCredentials)
	case errors.Is(err, model.ErrUnauthorized):
		response.Error(w, http.StatusUnauthorized, msgInvalidAuth)
	case errors.Is(err, model.ErrNotFound):
		response.Error(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, model.ErrInconsistentCopies):
		response.Error(w, http.StatusConflict, msgConflict)
	case errors.Is(err, model.ErrStorageDisabled):
		response.Error(w, http.StatusServiceUnavailable, msgUnavailable)
	default:
		logger.Error("HTTP handler: request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error())
		response.Error(w, http.StatusInternalServerError, msgInternal)
	}
}

// readIDParam parses the :id route parameter. A malformed id can never
// match a record, so it reads as not found.
func readIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(httprouter.ParamsFromContext(r.Context()).ByName("id"))
	if err != nil {
		return uuid.Nil, model.ErrNotFound
	}
	return id, nil
}

// identity returns the caller resolved by the authentication middleware.
func identity(r *http.Request, cm model.ContextManager) (model.Identity, error) {
	id, ok := cm.GetIdentityFromContext(r.Context())
	if !ok {
		return model.Identity{}, model.ErrUnauthorized
	}
	return id, nil
}

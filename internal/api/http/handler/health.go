package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/library-server/internal/api/http/response"
	"github.com/dtroode/library-server/internal/logger"
)

// Pinger checks that a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports service liveness.
type Health struct {
	pinger  Pinger
	version string
	logger  *logger.Logger
}

// NewHealth creates a new Health handler. pinger may be nil.
func NewHealth(pinger Pinger, version string, logger *logger.Logger) *Health {
	return &Health{pinger: pinger, version: version, logger: logger}
}

func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	status := "available"
	code := http.StatusOK
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.logger.Warn("Health handler: store unreachable", "error", err.Error())
			status = "unavailable"
			code = http.StatusServiceUnavailable
		}
	}

	body := response.Envelope{
		"status":  status,
		"version": h.version,
	}
	if err := response.WriteJSON(w, code, body); err != nil {
		handleError(w, r, h.logger, err)
	}
}

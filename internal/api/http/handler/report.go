package handler

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/dtroode/library-server/internal/api/http/response"
	"github.com/dtroode/library-server/internal/logger"
	"github.com/dtroode/library-server/internal/model"
)

// ExportService archives and serves overdue reports.
type ExportService interface {
	ExportOverdue(ctx context.Context, identity model.Identity) (model.ReportExport, error)
	OpenExport(ctx context.Context, identity model.Identity, key string) (io.ReadCloser, error)
	DeleteExport(ctx context.Context, identity model.Identity, key string) error
}

// Report handles the overdue report archive.
type Report struct {
	exportService  ExportService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewReport creates a new Report handler.
func NewReport(exportService ExportService, contextManager model.ContextManager, logger *logger.Logger) *Report {
	return &Report{
		exportService:  exportService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// readKeyParam rebuilds the object key from the *key catch-all parameter,
// which httprouter delivers with a leading slash.
func readKeyParam(r *http.Request) string {
	rest := strings.TrimPrefix(httprouter.ParamsFromContext(r.Context()).ByName("key"), "/")
	return model.OverdueReportPrefix + rest
}

// Export renders the current overdue report into the archive.
func (h *Report) Export(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	export, err := h.exportService.ExportOverdue(r.Context(), caller)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	body := reportExportResponse{
		Key:       export.Key,
		Count:     export.Count,
		CreatedAt: export.CreatedAt,
	}
	w.Header().Set("Location", "/"+export.Key)
	if err := response.WriteJSON(w, http.StatusCreated, body); err != nil {
		handleError(w, r, h.logger, err)
	}
}

// Download streams an archived report as CSV.
func (h *Report) Download(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	key := readKeyParam(r)
	rc, err := h.exportService.OpenExport(r.Context(), caller, key)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(key)+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("Report handler: failed to stream report",
			"key", key,
			"error", err.Error())
	}
}

// Delete removes an archived report.
func (h *Report) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r, h.contextManager)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := h.exportService.DeleteExport(r.Context(), caller, readKeyParam(r)); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

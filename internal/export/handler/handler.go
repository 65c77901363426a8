package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sajag/internal/audit"
	programhandler "sajag/internal/program/handler"
	"sajag/internal/visibility"
	dErrors "sajag/pkg/domain-errors"
	"sajag/pkg/platform/httputil"
	"sajag/pkg/requestcontext"
)

// Service defines the interface for export operations.
type Service interface {
	WriteCSV(ctx context.Context, w io.Writer, principal visibility.Principal, criteria visibility.Criteria) (int, error)
}

// Handler wires the export endpoint to the export service.
type Handler struct {
	service Service
	auditor audit.Emitter
	logger  *slog.Logger
}

// New constructs an export handler with its dependencies.
func New(service Service, auditor audit.Emitter, logger *slog.Logger) *Handler {
	return &Handler{service: service, auditor: auditor, logger: logger}
}

// Register mounts export endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/export/programs.csv", h.HandleExportCSV)
}

// HandleExportCSV handles GET /api/export/programs.csv requests. It honors
// the same filter query parameters as the program list.
func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="programs-%s.csv"`, time.Now().Format("2006-01-02")))

	rows, err := h.service.WriteCSV(ctx, w, principal, programhandler.CriteriaFromQuery(r))
	if err != nil {
		// Headers may already be on the wire, so logging is all that's left.
		h.logger.ErrorContext(ctx, "csv export failed",
			"request_id", requestID,
			"rows_written", rows,
			"error", err,
		)
		return
	}

	h.logger.InfoContext(ctx, "csv export generated",
		"request_id", requestID,
		"rows", rows,
	)
	if h.auditor != nil {
		_ = h.auditor.Emit(ctx, audit.Event{
			ActorID:   requestcontext.UserID(ctx).String(),
			Role:      string(principal.Role()),
			Action:    audit.ActionExportGenerated,
			Entity:    "program",
			Detail:    fmt.Sprintf("%d rows", rows),
			RequestID: requestID,
		})
	}
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sajag/internal/program"
	"sajag/internal/program/service"
	"sajag/internal/visibility"
	id "sajag/pkg/domain"
	dErrors "sajag/pkg/domain-errors"
	"sajag/pkg/platform/httputil"
	"sajag/pkg/requestcontext"
)

// Service defines the interface for program operations.
type Service interface {
	List(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria, page service.Page) (*service.ListResult, error)
	Get(ctx context.Context, principal visibility.Principal, programID id.ProgramID) (*program.TrainingProgram, error)
	Create(ctx context.Context, principal visibility.Principal, p *program.TrainingProgram) (*program.TrainingProgram, error)
	Update(ctx context.Context, principal visibility.Principal, programID id.ProgramID, apply func(*program.TrainingProgram)) (*program.TrainingProgram, error)
	Delete(ctx context.Context, principal visibility.Principal, programID id.ProgramID) error
	BulkDelete(ctx context.Context, principal visibility.Principal, programIDs []id.ProgramID) (int, error)
}

// Handler wires program endpoints to the program service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a program handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts program endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/programs", h.HandleList)
	r.Post("/api/programs", h.HandleCreate)
	r.Post("/api/programs/bulk-delete", h.HandleBulkDelete)
	r.Get("/api/programs/{id}", h.HandleGet)
	r.Put("/api/programs/{id}", h.HandleUpdate)
	r.Delete("/api/programs/{id}", h.HandleDelete)
}

func principalFrom(ctx context.Context, w http.ResponseWriter) (visibility.Principal, bool) {
	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return visibility.Principal{}, false
	}
	return principal, true
}

// HandleList handles GET /api/programs requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := principalFrom(ctx, w)
	if !ok {
		return
	}

	result, err := h.service.List(ctx, principal, CriteriaFromQuery(r), PageFromQuery(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "program list failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// An empty page is a valid outcome, rendered as an empty array rather
	// than null so the client's empty state works.
	if result.Programs == nil {
		result.Programs = []program.TrainingProgram{}
	}
	httputil.WriteEnvelopePage(w, http.StatusOK, result.Programs,
		httputil.NewPagination(result.Page, result.Limit, result.Total))
}

// HandleGet handles GET /api/programs/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := principalFrom(ctx, w)
	if !ok {
		return
	}
	programID, err := id.ParseProgramID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.service.Get(ctx, principal, programID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteEnvelope(w, http.StatusOK, rec)
}

// HandleCreate handles POST /api/programs requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	principal, ok := principalFrom(ctx, w)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateProgramRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	rec, err := req.ToProgram()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	created, err := h.service.Create(ctx, principal, rec)
	if err != nil {
		h.logger.ErrorContext(ctx, "program create failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "program created",
		"request_id", requestID,
		"program_id", created.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteEnvelope(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /api/programs/{id} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	principal, ok := principalFrom(ctx, w)
	if !ok {
		return
	}
	programID, err := id.ParseProgramID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateProgramRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	updated, err := h.service.Update(ctx, principal, programID, req.Apply)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "program updated",
		"request_id", requestID,
		"program_id", updated.ID,
	)
	httputil.WriteEnvelope(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/programs/{id} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := principalFrom(ctx, w)
	if !ok {
		return
	}
	programID, err := id.ParseProgramID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, principal, programID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "program deleted",
		"request_id", requestcontext.RequestID(ctx),
		"program_id", programID,
	)
	httputil.WriteMessage(w, http.StatusOK, "Program deleted successfully")
}

// HandleBulkDelete handles POST /api/programs/bulk-delete requests.
func (h *Handler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	principal, ok := principalFrom(ctx, w)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[BulkDeleteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	ids := make([]id.ProgramID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		pid, err := id.ParseProgramID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		ids = append(ids, pid)
	}

	deleted, err := h.service.BulkDelete(ctx, principal, ids)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "programs bulk deleted",
		"request_id", requestID,
		"requested", len(ids),
		"deleted", deleted,
	)
	httputil.WriteEnvelope(w, http.StatusOK, map[string]int{"deleted": deleted})
}

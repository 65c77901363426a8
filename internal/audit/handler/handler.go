package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sajag/internal/audit"
	dErrors "sajag/pkg/domain-errors"
	"sajag/pkg/platform/httputil"
	admin "sajag/pkg/platform/middleware/admin"
	"sajag/pkg/requestcontext"
)

// Store is the read side of the audit trail.
type Store interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

// Handler serves the audit trail to administrators.
type Handler struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register mounts the audit endpoints. The routes are admin-only on top of
// the regular auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.With(admin.RequireAdminRole(h.logger)).Get("/api/audit/logs", h.HandleList)
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

// eventResponse is the wire shape of one audit event.
type eventResponse struct {
	Timestamp time.Time    `json:"timestamp"`
	ActorID   string       `json:"actorId,omitempty"`
	Role      string       `json:"role,omitempty"`
	Action    audit.Action `json:"action"`
	Entity    string       `json:"entity,omitempty"`
	EntityID  string       `json:"entityId,omitempty"`
	Detail    string       `json:"detail,omitempty"`
	RequestID string       `json:"requestId,omitempty"`
}

// HandleList handles GET /api/audit/logs requests, newest events first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = min(parsed, maxLimit)
	}

	events, err := h.store.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit log list failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "failed to load audit log", err))
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			Timestamp: e.Timestamp,
			ActorID:   e.ActorID,
			Role:      e.Role,
			Action:    e.Action,
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			Detail:    e.Detail,
			RequestID: e.RequestID,
		})
	}
	httputil.WriteEnvelope(w, http.StatusOK, out)
}

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sajag/internal/partner"
	"sajag/internal/visibility"
	id "sajag/pkg/domain"
	dErrors "sajag/pkg/domain-errors"
	"sajag/pkg/platform/httputil"
	"sajag/pkg/requestcontext"
)

// Service defines the interface for partner operations.
type Service interface {
	List(ctx context.Context, partnerType partner.Type) ([]partner.TrainingPartner, error)
	Get(ctx context.Context, partnerID id.PartnerID) (*partner.TrainingPartner, error)
	Create(ctx context.Context, principal visibility.Principal, p *partner.TrainingPartner) (*partner.TrainingPartner, error)
	Update(ctx context.Context, principal visibility.Principal, partnerID id.PartnerID, apply func(*partner.TrainingPartner)) (*partner.TrainingPartner, error)
	Delete(ctx context.Context, principal visibility.Principal, partnerID id.PartnerID) error
}

// Handler wires partner endpoints to the partner service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a partner handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts partner endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/partners", h.HandleList)
	r.Post("/api/partners", h.HandleCreate)
	r.Get("/api/partners/{id}", h.HandleGet)
	r.Put("/api/partners/{id}", h.HandleUpdate)
	r.Delete("/api/partners/{id}", h.HandleDelete)
}

func principalFrom(ctx context.Context, w http.ResponseWriter) (visibility.Principal, bool) {
	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return visibility.Principal{}, false
	}
	return principal, true
}

// HandleList handles GET /api/partners requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := principalFrom(ctx, w); !ok {
		return
	}

	partners, err := h.service.List(ctx, partner.Type(r.URL.Query().Get("type")))
	if err != nil {
		h.logger.ErrorContext(ctx, "partner list failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if partners == nil {
		partners = []partner.TrainingPartner{}
	}
	httputil.WriteEnvelope(w, http.StatusOK, partners)
}

// HandleGet handles GET /api/partners/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := principalFrom(ctx, w); !ok {
		return
	}
	partnerID, err := id.ParsePartnerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.service.Get(ctx, partnerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteEnvelope(w, http.StatusOK, p)
}

// HandleCreate handles POST /api/partners requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	principal, ok := principalFrom(ctx, w)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreatePartnerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	created, err := h.service.Create(ctx, principal, req.ToPartner())
	if err != nil {
		h.logger.ErrorContext(ctx, "partner create failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "partner created",
		"request_id", requestID,
		"partner_id", created.ID,
	)
	httputil.WriteEnvelope(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /api/partners/{id} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	principal, ok := principalFrom(ctx, w)
	if !ok {
		return
	}
	partnerID, err := id.ParsePartnerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdatePartnerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	updated, err := h.service.Update(ctx, principal, partnerID, req.Apply)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "partner updated",
		"request_id", requestID,
		"partner_id", updated.ID,
	)
	httputil.WriteEnvelope(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/partners/{id} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := principalFrom(ctx, w)
	if !ok {
		return
	}
	partnerID, err := id.ParsePartnerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, principal, partnerID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "partner deleted",
		"request_id", requestcontext.RequestID(ctx),
		"partner_id", partnerID,
	)
	httputil.WriteMessage(w, http.StatusOK, "Partner deleted successfully")
}

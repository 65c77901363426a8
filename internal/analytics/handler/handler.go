package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sajag/internal/analytics"
	programhandler "sajag/internal/program/handler"
	"sajag/internal/visibility"
	dErrors "sajag/pkg/domain-errors"
	"sajag/pkg/platform/httputil"
	"sajag/pkg/requestcontext"
)

// Service defines the interface for analytics operations.
type Service interface {
	Stats(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) (*visibility.Stats, error)
	ThematicCoverage(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) ([]visibility.ThemeSlice, error)
	GeographicSpread(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) ([]visibility.StateSlice, error)
	StatusDistribution(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) ([]visibility.StatusSlice, error)
	PartnerLeaderboard(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) ([]visibility.PartnerRank, error)
	Dashboard(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) (*analytics.Dashboard, error)
}

// Handler wires analytics endpoints to the analytics service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an analytics handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts analytics endpoints on the router. Every endpoint accepts
// the same filter query parameters as the program list, so charts follow the
// active filters.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/analytics/stats", h.HandleStats)
	r.Get("/api/analytics/thematic-coverage", h.HandleThematicCoverage)
	r.Get("/api/analytics/geographic-spread", h.HandleGeographicSpread)
	r.Get("/api/analytics/status-distribution", h.HandleStatusDistribution)
	r.Get("/api/analytics/partner-leaderboard", h.HandlePartnerLeaderboard)
	r.Get("/api/analytics/dashboard", h.HandleDashboard)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, name string,
	compute func(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) (any, error),
) {
	ctx := r.Context()
	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	data, err := compute(ctx, principal, programhandler.CriteriaFromQuery(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "analytics query failed",
			"request_id", requestcontext.RequestID(ctx),
			"aggregate", name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteEnvelope(w, http.StatusOK, data)
}

// HandleStats handles GET /api/analytics/stats requests.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "stats", func(ctx context.Context, p visibility.Principal, c visibility.Criteria) (any, error) {
		return h.service.Stats(ctx, p, c)
	})
}

// HandleThematicCoverage handles GET /api/analytics/thematic-coverage requests.
func (h *Handler) HandleThematicCoverage(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "thematic_coverage", func(ctx context.Context, p visibility.Principal, c visibility.Criteria) (any, error) {
		slices, err := h.service.ThematicCoverage(ctx, p, c)
		if slices == nil {
			slices = []visibility.ThemeSlice{}
		}
		return slices, err
	})
}

// HandleGeographicSpread handles GET /api/analytics/geographic-spread requests.
func (h *Handler) HandleGeographicSpread(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "geographic_spread", func(ctx context.Context, p visibility.Principal, c visibility.Criteria) (any, error) {
		slices, err := h.service.GeographicSpread(ctx, p, c)
		if slices == nil {
			slices = []visibility.StateSlice{}
		}
		return slices, err
	})
}

// HandleStatusDistribution handles GET /api/analytics/status-distribution requests.
func (h *Handler) HandleStatusDistribution(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "status_distribution", func(ctx context.Context, p visibility.Principal, c visibility.Criteria) (any, error) {
		slices, err := h.service.StatusDistribution(ctx, p, c)
		if slices == nil {
			slices = []visibility.StatusSlice{}
		}
		return slices, err
	})
}

// HandlePartnerLeaderboard handles GET /api/analytics/partner-leaderboard requests.
func (h *Handler) HandlePartnerLeaderboard(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "partner_leaderboard", func(ctx context.Context, p visibility.Principal, c visibility.Criteria) (any, error) {
		ranks, err := h.service.PartnerLeaderboard(ctx, p, c)
		if ranks == nil {
			ranks = []visibility.PartnerRank{}
		}
		return ranks, err
	})
}

// HandleDashboard handles GET /api/analytics/dashboard requests.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "dashboard", func(ctx context.Context, p visibility.Principal, c visibility.Criteria) (any, error) {
		return h.service.Dashboard(ctx, p, c)
	})
}

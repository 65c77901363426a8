// Package httptransport assembles the HTTP surface: middleware chain, public
// routes, and the authenticated API. Handlers register themselves; this
// package only decides what sits in front of them.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sajag/internal/health"
	platformmetrics "sajag/internal/platform/metrics"
	authmw "sajag/pkg/platform/middleware/auth"
	"sajag/pkg/platform/middleware/metadata"
	request "sajag/pkg/platform/middleware/request"
	"sajag/pkg/platform/middleware/requesttime"
)

// Registrar mounts a handler's routes on a router.
type Registrar interface {
	Register(r chi.Router)
}

// RegistrarFunc adapts a registration function to the Registrar interface.
type RegistrarFunc func(r chi.Router)

func (f RegistrarFunc) Register(r chi.Router) { f(r) }

// Deps carries everything the router needs. Optional entries may be nil and
// their routes are skipped.
type Deps struct {
	Logger  *slog.Logger
	Metrics *platformmetrics.Metrics

	TokenValidator    authmw.TokenValidator
	RevocationChecker authmw.TokenRevocationChecker

	Health *health.Handler

	// Public routes served without a token.
	Public []Registrar
	// API routes served behind RequireAuth.
	API []Registrar
}

// NewRouter wires the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(deps.Metrics.Middleware)

	if deps.Health != nil {
		deps.Health.Register(r)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range deps.Public {
		h.Register(r)
	}

	r.Group(func(api chi.Router) {
		api.Use(authmw.RequireAuth(deps.TokenValidator, deps.RevocationChecker, deps.Logger))
		for _, h := range deps.API {
			h.Register(api)
		}
	})

	return r
}

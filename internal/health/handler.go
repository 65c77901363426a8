// Package health exposes liveness and readiness probes.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Checker reports whether a backing dependency is reachable.
type Checker interface {
	Health(ctx context.Context) error
}

// CheckFunc adapts a function to the Checker interface.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Health(ctx context.Context) error { return f(ctx) }

// Handler serves the health endpoints.
type Handler struct {
	checks map[string]Checker
}

// New constructs a health handler. Register dependencies with AddCheck.
func New() *Handler {
	return &Handler{checks: make(map[string]Checker)}
}

// AddCheck registers a named dependency check. Nil checkers are ignored so
// optional backends (Redis, Postgres) can be passed straight through.
func (h *Handler) AddCheck(name string, c Checker) {
	if c != nil {
		h.checks[name] = c
	}
}

// Register mounts health endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleLiveness)
	r.Get("/readyz", h.HandleReadiness)
}

// HandleLiveness handles GET /healthz requests. It answers as long as the
// process is serving; dependencies are the readiness probe's concern.
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleReadiness handles GET /readyz requests, pinging every registered
// dependency with a short deadline.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Health(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(results)
}

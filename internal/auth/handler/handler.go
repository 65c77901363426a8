package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sajag/internal/auth"
	"sajag/internal/auth/service"
	"sajag/internal/visibility"
	dErrors "sajag/pkg/domain-errors"
	"sajag/pkg/platform/httputil"
	"sajag/pkg/requestcontext"
)

// Service defines the interface for auth operations.
type Service interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*service.Identity, error)
	CreateUser(ctx context.Context, principal visibility.Principal, user *auth.User, password string) (*service.Identity, error)
}

// Handler wires auth endpoints to the auth service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an auth handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the endpoints that must work without a token.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/api/auth/login", h.HandleLogin)
}

// Register mounts the endpoints that require an authenticated request.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/auth/logout", h.HandleLogout)
	r.Get("/api/auth/me", h.HandleMe)
	r.Post("/api/auth/users", h.HandleCreateUser)
}

// HandleLogin handles POST /api/auth/login requests.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.InfoContext(ctx, "login rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "login succeeded",
		"request_id", requestID,
		"user_id", result.User.ID,
		"role", result.User.Role,
	)
	httputil.WriteEnvelope(w, http.StatusOK, result)
}

// HandleLogout handles POST /api/auth/logout requests.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.Logout(ctx); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "logout",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", requestcontext.UserID(ctx),
	)
	httputil.WriteMessage(w, http.StatusOK, "Logged out successfully")
}

// HandleMe handles GET /api/auth/me requests.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, err := h.service.Me(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteEnvelope(w, http.StatusOK, identity)
}

// HandleCreateUser handles POST /api/auth/users requests.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateUserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	identity, err := h.service.CreateUser(ctx, principal, &auth.User{
		Email:      req.Email,
		Name:       req.Name,
		Role:       visibility.Role(req.Role),
		States:     req.States,
		PartnerIDs: req.PartnerIDs,
	}, req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "user create failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "user created",
		"request_id", requestID,
		"user_id", identity.ID,
		"role", identity.Role,
	)
	httputil.WriteEnvelope(w, http.StatusCreated, identity)
}

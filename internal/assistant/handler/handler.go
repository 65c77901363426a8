package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sajag/internal/visibility"
	dErrors "sajag/pkg/domain-errors"
	"sajag/pkg/platform/httputil"
	"sajag/pkg/requestcontext"
)

// Service defines the interface for assistant operations.
type Service interface {
	Chat(ctx context.Context, principal visibility.Principal, question string) (string, error)
}

// Handler wires the assistant endpoint to the assistant service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an assistant handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts assistant endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/assistant/chat", h.HandleChat)
}

// ChatRequest is the POST /api/assistant/chat body.
type ChatRequest struct {
	Question string `json:"question"`
}

func (r *ChatRequest) Validate() error {
	if r.Question == "" {
		return dErrors.New(dErrors.CodeBadRequest, "question is required")
	}
	return nil
}

// ChatResponse carries the assistant's answer.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// HandleChat handles POST /api/assistant/chat requests.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[ChatRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	answer, err := h.service.Chat(ctx, principal, req.Question)
	if err != nil {
		h.logger.ErrorContext(ctx, "assistant chat failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteEnvelope(w, http.StatusOK, ChatResponse{Answer: answer})
}

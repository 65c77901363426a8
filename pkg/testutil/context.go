package testutil

import (
	"net/http"

	"sajag/internal/visibility"
	id "sajag/pkg/domain"
	"sajag/pkg/requestcontext"
)

// WithPrincipal attaches an authenticated principal to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithPrincipal(req *http.Request, principal visibility.Principal) *http.Request {
	return req.WithContext(requestcontext.WithPrincipal(req.Context(), principal))
}

// WithUserID adds a user ID to the request context.
// If the userID is not a valid UUID, it will not be added to the context.
func WithUserID(req *http.Request, userID string) *http.Request {
	if parsed, err := id.ParseUserID(userID); err == nil {
		return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
	}
	return req
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithAuth attaches both a principal and a user ID, the typical state of an
// authenticated request. An invalid user ID is silently ignored.
func WithAuth(req *http.Request, principal visibility.Principal, userID string) *http.Request {
	req = WithPrincipal(req, principal)
	return WithUserID(req, userID)
}

package admin

import (
	"log/slog"
	"net/http"

	"sajag/internal/visibility"
	request "sajag/pkg/platform/middleware/request"
	"sajag/pkg/requestcontext"
)

// RequireAdminRole rejects requests whose principal is not an admin. Mount it
// after RequireAuth on routes that manage accounts or reference data.
func RequireAdminRole(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			principal, ok := requestcontext.Principal(ctx)
			if !ok || principal.Role() != visibility.RoleAdmin {
				logger.WarnContext(ctx, "admin role required",
					"request_id", request.GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"admin role required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

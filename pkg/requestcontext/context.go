// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services and handlers read them without
// importing net/http. Tests inject them directly:
//
//	ctx = requestcontext.WithPrincipal(ctx, visibility.Admin())
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	"sajag/internal/visibility"
	id "sajag/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	userIDKey      struct{}
	principalKey   struct{}
	jtiKey         struct{}
	tokenExpiryKey struct{}
	requestIDKey   struct{}
	timeKey        struct{}
)

// UserID retrieves the authenticated user ID from the context.
// Returns the zero value (nil UUID) if not set.
func UserID(ctx context.Context) id.UserID {
	if userID, ok := ctx.Value(userIDKey{}).(id.UserID); ok {
		return userID
	}
	return id.UserID{}
}

// WithUserID injects a user ID into the context.
func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// Principal retrieves the authenticated principal. The second return is false
// when no auth middleware ran, which callers must treat as unauthenticated;
// there is no safe default principal.
func Principal(ctx context.Context) (visibility.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(visibility.Principal)
	return p, ok
}

// WithPrincipal injects a principal into the context.
func WithPrincipal(ctx context.Context, p visibility.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// JTI retrieves the current access token's ID, used for logout revocation.
func JTI(ctx context.Context) string {
	if jti, ok := ctx.Value(jtiKey{}).(string); ok {
		return jti
	}
	return ""
}

// WithJTI injects a token ID into the context.
func WithJTI(ctx context.Context, jti string) context.Context {
	return context.WithValue(ctx, jtiKey{}, jti)
}

// TokenExpiry retrieves the current access token's expiry, zero when the
// auth middleware did not record one. Logout uses it to size the revocation
// entry to the token's remaining validity.
func TokenExpiry(ctx context.Context) time.Time {
	if exp, ok := ctx.Value(tokenExpiryKey{}).(time.Time); ok {
		return exp
	}
	return time.Time{}
}

// WithTokenExpiry injects a token expiry into the context.
func WithTokenExpiry(ctx context.Context, exp time.Time) context.Context {
	return context.WithValue(ctx, tokenExpiryKey{}, exp)
}

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time, falling back to time.Now for
// non-HTTP contexts like workers and tests that did not inject one.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(timeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, timeKey{}, t)
}

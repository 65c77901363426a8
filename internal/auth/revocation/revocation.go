// Package revocation tracks access tokens invalidated before their natural
// expiry. Logout writes the token's JTI here; the auth middleware checks it
// on every request.
package revocation

import (
	"context"
	"fmt"
	"time"

	"sajag/pkg/platform/sentinel"
)

// TokenRevocationList records revoked token IDs until they would have expired
// anyway.
type TokenRevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}

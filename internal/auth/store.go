package auth

import (
	"context"

	id "sajag/pkg/domain"
)

// UserStore persists user accounts. Implementations return sentinel errors;
// the auth service translates them into domain errors.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, userID id.UserID) (*User, error)
	Save(ctx context.Context, user *User) error
}

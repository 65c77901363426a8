package auth

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"sajag/internal/visibility"
	id "sajag/pkg/domain"
	dErrors "sajag/pkg/domain-errors"
)

// User is an account that can sign in to the tracker. Role and scopes are
// stored on the user and minted into token claims at login; the visibility
// pipeline only ever sees the Principal derived from them.
type User struct {
	ID           id.UserID
	Email        string
	Name         string
	PasswordHash []byte
	Role         visibility.Role
	States       []string
	PartnerIDs   []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal derives the access principal for this user. It fails for scoped
// roles with no scopes, which is an account configuration error.
func (u *User) Principal() (visibility.Principal, error) {
	return visibility.NewPrincipal(u.Role, u.States, u.PartnerIDs)
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return dErrors.New(dErrors.CodeInvalidInput, "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to hash password", err)
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword reports whether the password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}

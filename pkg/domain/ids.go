// Package domain holds typed identifiers shared across modules. Distinct
// types keep a program ID from ever being passed where a partner ID is
// expected; the compiler enforces what would otherwise be a naming
// convention.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "sajag/pkg/domain-errors"
)

// UserID identifies an account. Users are created by this service, so the ID
// is a UUID we mint ourselves.
type UserID uuid.UUID

// ProgramID identifies a training program. Program IDs are human-readable
// codes assigned at creation (e.g. "NDMA-TR-25-001") and are matched
// case-insensitively by free-text search, so the raw casing is preserved.
type ProgramID string

// PartnerID identifies a training partner (e.g. "P01").
type PartnerID string

func NewUserID() UserID { return UserID(uuid.New()) }

// ParseUserID validates an incoming string as a user ID. Rejects empty,
// malformed, and nil UUIDs since those never identify a real account.
func ParseUserID(s string) (UserID, error) {
	if s == "" {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "user id must not be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "user id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "user id must not be the nil UUID")
	}
	return UserID(parsed), nil
}

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// ParseProgramID validates an incoming string as a program ID.
func ParseProgramID(s string) (ProgramID, error) {
	if strings.TrimSpace(s) == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "program id must not be empty")
	}
	return ProgramID(s), nil
}

func (id ProgramID) String() string { return string(id) }

// ParsePartnerID validates an incoming string as a partner ID.
func ParsePartnerID(s string) (PartnerID, error) {
	if strings.TrimSpace(s) == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "partner id must not be empty")
	}
	return PartnerID(s), nil
}

func (id PartnerID) String() string { return string(id) }

package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sajag/pkg/domain-errors"
)

// TestParseUserID_Invariants validates the parsing invariant:
// "user IDs must be valid, non-empty, non-nil UUIDs".
func TestParseUserID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseUserID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(validUUID), id)
	})
}

func TestParseProgramID(t *testing.T) {
	t.Run("rejects blank", func(t *testing.T) {
		_, err := ParseProgramID("   ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("preserves casing", func(t *testing.T) {
		id, err := ParseProgramID("NDMA-TR-25-FLOOD1")
		require.NoError(t, err)
		assert.Equal(t, "NDMA-TR-25-FLOOD1", id.String())
	})
}

func TestParsePartnerID(t *testing.T) {
	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParsePartnerID("")
		require.Error(t, err)
	})

	t.Run("accepts code", func(t *testing.T) {
		id, err := ParsePartnerID("P01")
		require.NoError(t, err)
		assert.Equal(t, PartnerID("P01"), id)
	})
}

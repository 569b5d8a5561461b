package utils

import (
    "regexp"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewReservationID(t *testing.T) {
    pattern := regexp.MustCompile(`^res_[0-9a-z]+_[0-9a-f]{10}$`)
    seen := make(map[string]bool)
    for i := 0; i < 100; i++ {
        id, err := NewReservationID()
        require.NoError(t, err)
        assert.Regexp(t, pattern, id)
        assert.False(t, seen[id], "duplicate id generated: %s", id)
        seen[id] = true
    }
}

func TestNewConfirmationCode(t *testing.T) {
    pattern := regexp.MustCompile(`^[A-Z0-9]{8}$`)
    for i := 0; i < 100; i++ {
        code, err := NewConfirmationCode()
        require.NoError(t, err)
        assert.Regexp(t, pattern, code)
    }
}

func TestNewBookingReference(t *testing.T) {
    now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
    pattern := regexp.MustCompile(`^LR26\d{6}$`)
    for i := 0; i < 100; i++ {
        ref, err := NewBookingReference(now)
        require.NoError(t, err)
        assert.Regexp(t, pattern, ref)
    }
}

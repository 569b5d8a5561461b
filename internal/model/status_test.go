package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
    assert.True(t, CanTransition(StatusPending, StatusConfirmed))
    assert.True(t, CanTransition(StatusPending, StatusCancelled))
    assert.True(t, CanTransition(StatusConfirmed, StatusCompleted))
    assert.True(t, CanTransition(StatusConfirmed, StatusNoShow))
    assert.True(t, CanTransition(StatusConfirmed, StatusCancelled))

    assert.False(t, CanTransition(StatusPending, StatusCompleted))
    assert.False(t, CanTransition(StatusPending, StatusNoShow))
    assert.False(t, CanTransition(StatusConfirmed, StatusPending))
    assert.False(t, CanTransition(StatusPending, StatusPending))
}

func TestTerminalStatesRejectEverything(t *testing.T) {
    terminals := []ReservationStatus{StatusCancelled, StatusCompleted, StatusNoShow}
    all := []ReservationStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow}
    for _, from := range terminals {
        assert.True(t, Terminal(from))
        for _, to := range all {
            assert.False(t, CanTransition(from, to), "%s -> %s must be illegal", from, to)
        }
    }
    assert.False(t, Terminal(StatusPending))
    assert.False(t, Terminal(StatusConfirmed))
}

func TestValidStatus(t *testing.T) {
    assert.True(t, ValidStatus(StatusPending))
    assert.True(t, ValidStatus(StatusNoShow))
    assert.False(t, ValidStatus("archived"))
    assert.False(t, ValidStatus(""))

    assert.True(t, ValidPaymentStatus(PaymentRefunded))
    assert.False(t, ValidPaymentStatus("chargeback"))
}

package model

// ReservationStatus enumerates the lifecycle states of a reservation.
// A reservation is created as StatusPending and moves through the
// transition table below. Terminal states never transition again; a
// reservation is never deleted, only marked cancelled.
type ReservationStatus string

const (
    StatusPending   ReservationStatus = "pending"
    StatusConfirmed ReservationStatus = "confirmed"
    StatusCancelled ReservationStatus = "cancelled"
    StatusCompleted ReservationStatus = "completed"
    StatusNoShow    ReservationStatus = "no_show"
)

// PaymentStatus tracks payment progress independently of the
// reservation lifecycle. A confirmed reservation may still be unpaid
// and a cancelled one may be refunded.
type PaymentStatus string

const (
    PaymentPending  PaymentStatus = "pending"
    PaymentPartial  PaymentStatus = "partial"
    PaymentPaid     PaymentStatus = "paid"
    PaymentRefunded PaymentStatus = "refunded"
    PaymentFailed   PaymentStatus = "failed"
)

// statusTransitions is the legality table for reservation status
// changes. Keys absent from the map are terminal.
var statusTransitions = map[ReservationStatus][]ReservationStatus{
    StatusPending:   {StatusConfirmed, StatusCancelled},
    StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// ValidStatus reports whether s names a known reservation status.
func ValidStatus(s ReservationStatus) bool {
    switch s {
    case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
        return true
    }
    return false
}

// ValidPaymentStatus reports whether s names a known payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
    switch s {
    case PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded, PaymentFailed:
        return true
    }
    return false
}

// CanTransition reports whether a reservation currently in state from
// may legally move to state to. Terminal states (cancelled, completed,
// no_show) reject every transition.
func CanTransition(from, to ReservationStatus) bool {
    for _, next := range statusTransitions[from] {
        if next == to {
            return true
        }
    }
    return false
}

// Terminal reports whether s admits no further transitions.
func Terminal(s ReservationStatus) bool {
    return len(statusTransitions[s]) == 0
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationCreatedEvent is published after a reservation is
// successfully persisted. It carries enough information for
// downstream consumers to log, notify, or feed analytics without
// querying the primary database.
type ReservationCreatedEvent struct {
    ReservationID    string `json:"reservation_id"`
    ConfirmationCode string `json:"confirmation_code"`
    BookingReference string `json:"booking_reference"`
    LoftID           string `json:"loft_id"`
    LoftName         string `json:"loft_name"`
    CheckInDate      string `json:"check_in_date"`
    CheckOutDate     string `json:"check_out_date"`
    Nights           int    `json:"nights"`
    Guests           int    `json:"guests"`
    TotalCents       int64  `json:"total_cents"`
    Currency         string `json:"currency"`
    BookingSource    string `json:"booking_source"`
    CreatedAt        string `json:"created_at"`
}

// Package repository defines error types that are reused across
// multiple repositories. These sentinel values let higher layers such
// as the reservation service and HTTP handlers distinguish failure
// scenarios without string matching: for example ErrLoftNotFound maps
// to a validation error while ErrDuplicateReservation maps to the
// user-facing "already exists" message.
package repository

import "errors"

// ErrLoftNotFound is returned when a loft lookup by public identifier
// matches no active row.
var ErrLoftNotFound = errors.New("loft not found")

// ErrReservationNotFound is returned by point lookups and updates
// when no reservation matches the given identifier or code.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrLoftMissing is returned on insert when the loft referenced by a
// reservation no longer exists (foreign key violation). The loft can
// disappear between validation and insert; callers translate this
// into a "refresh and retry" message.
var ErrLoftMissing = errors.New("loft missing")

// ErrDuplicateReservation is returned on insert when a uniqueness
// constraint rejects the row, either because an identifier collided
// or because the overlap constraint refused a double booking.
var ErrDuplicateReservation = errors.New("duplicate reservation")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when registering an account with an
// email that is already taken.
var ErrEmailExists = errors.New("email already exists")

// Package service implements the reservation pricing and validation
// flow. Public methods never panic and never leak infrastructure
// errors: every outcome is a result struct (or a boolean plus a
// sentinel error) whose Errors slice carries user-facing messages,
// while raw database errors are logged server-side only.
package service

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/iliyamo/loft-reservation/internal/model"
    "github.com/iliyamo/loft-reservation/internal/pricing"
    "github.com/iliyamo/loft-reservation/internal/repository"
    "github.com/iliyamo/loft-reservation/internal/utils"
    "github.com/iliyamo/loft-reservation/internal/validate"
)

// ErrIllegalTransition is returned by UpdateStatus and Cancel when
// the requested status change violates the lifecycle table.
var ErrIllegalTransition = errors.New("illegal status transition")

// ErrUnknownPaymentStatus is returned by UpdatePaymentStatus when the
// requested value is not one of the known payment statuses.
var ErrUnknownPaymentStatus = errors.New("unknown payment status")

// LoftFinder resolves a loft by its public identifier. It is
// read-only and may fail transiently; the pipeline only consults it
// after the request's basic shape has been verified.
type LoftFinder interface {
    GetByID(ctx context.Context, id string) (*model.Loft, error)
}

// ReservationStore is the persistence collaborator for reservations.
// Insert must surface constraint violations as the repository
// sentinel errors so they can be translated into user-facing
// messages.
type ReservationStore interface {
    HasOverlap(ctx context.Context, loftID, checkIn, checkOut string) (bool, error)
    Insert(ctx context.Context, res *model.Reservation) error
    GetByID(ctx context.Context, id string) (*model.Reservation, error)
    GetByAnyCode(ctx context.Context, code string) (*model.Reservation, error)
    UpdateStatus(ctx context.Context, id string, status model.ReservationStatus, updatedBy string) error
    UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus, updatedBy string) error
    Cancel(ctx context.Context, id, reason, cancelledBy string) error
}

// ValidationResult is the outcome of Validate. Partial artifacts
// (loft, pricing, nights) are attached even when Valid is false so a
// caller can render a price preview next to the error messages.
type ValidationResult struct {
    Valid   bool                    `json:"valid"`
    Errors  []string                `json:"errors"`
    Loft    *model.Loft             `json:"-"`
    Pricing *model.PricingBreakdown `json:"pricing,omitempty"`
    Nights  int                     `json:"nights,omitempty"`
}

// CreateResult is the outcome of Create. On success Reservation holds
// the persisted record re-read from storage with its JSON columns
// decoded back into structured form.
type CreateResult struct {
    Success          bool               `json:"success"`
    Errors           []string           `json:"errors,omitempty"`
    Reservation      *model.Reservation `json:"-"`
    ConfirmationCode string             `json:"confirmation_code,omitempty"`
    BookingReference string             `json:"booking_reference,omitempty"`
}

// ReservationService orchestrates validation, pricing and persistence
// for reservations. It holds no mutable state and is safe for
// concurrent use; correctness against double booking is delegated to
// the storage layer's overlap constraint, not to any in-process lock.
type ReservationService struct {
    lofts    LoftFinder
    store    ReservationStore
    currency string
    now      func() time.Time
}

// NewReservationService builds a service around the given
// collaborators. currency is the fixed code stamped on every quote.
func NewReservationService(lofts LoftFinder, store ReservationStore, currency string) *ReservationService {
    return &ReservationService{lofts: lofts, store: store, currency: currency, now: time.Now}
}

// Validate runs the ordered validation pipeline over a raw request.
// Stage one accumulates every independent field error before the
// first checkpoint; only when the basic shape is good does the
// pipeline spend a round-trip on the loft lookup and, later, the
// availability query. A failing availability query counts as "not
// available" so an outage can never let a double booking through.
func (s *ReservationService) Validate(ctx context.Context, req *model.ReservationRequest) ValidationResult {
    res := ValidationResult{Errors: []string{}}
    if req == nil {
        res.Errors = append(res.Errors, "invalid reservation request")
        return res
    }

    // Independent field checks, accumulated.
    if !validate.LoftID(req.LoftID) {
        res.Errors = append(res.Errors, "invalid loft id")
    }
    checkIn, errIn := time.Parse(pricing.DateLayout, req.CheckInDate)
    if errIn != nil {
        res.Errors = append(res.Errors, "invalid check-in date")
    }
    checkOut, errOut := time.Parse(pricing.DateLayout, req.CheckOutDate)
    if errOut != nil {
        res.Errors = append(res.Errors, "invalid check-out date")
    }
    nights := 0
    if errIn == nil && errOut == nil {
        nights = pricing.Nights(checkIn, checkOut)
        if !checkIn.Before(checkOut) || nights <= 0 {
            res.Errors = append(res.Errors, "check-out must be after check-in")
        }
    }
    if !validate.GuestInfo(req.GuestInfo) {
        res.Errors = append(res.Errors, "invalid guest information")
    }
    if req.Guests != req.GuestInfo.TotalGuests {
        res.Errors = append(res.Errors, "guest count does not match guest details")
    }
    if !validate.SafeText(req.SpecialRequests) || !validate.SafeText(req.DietaryNeeds) || !validate.SafeText(req.AccessibilityNeeds) {
        res.Errors = append(res.Errors, "special requests contain unsafe content")
    }
    if !req.TermsAccepted {
        res.Errors = append(res.Errors, "terms must be accepted")
    }

    // Checkpoint A: no I/O when the basic shape is wrong.
    if len(res.Errors) > 0 {
        return res
    }
    res.Nights = nights

    // Checkpoint B: resolve the loft before any business rules.
    loft, err := s.lofts.GetByID(ctx, req.LoftID)
    if err != nil {
        if errors.Is(err, repository.ErrLoftNotFound) {
            res.Errors = append(res.Errors, "loft not found")
        } else {
            log.Printf("reservation: loft lookup failed for %s: %v", req.LoftID, err)
            res.Errors = append(res.Errors, "loft not found")
        }
        return res
    }
    res.Loft = loft

    // Business rules against the resolved loft, accumulated.
    if req.Guests > loft.MaxGuests {
        res.Errors = append(res.Errors, fmt.Sprintf("loft sleeps at most %d guests", loft.MaxGuests))
    }
    if loft.MinStayNights > 0 && nights < loft.MinStayNights {
        res.Errors = append(res.Errors, fmt.Sprintf("minimum stay is %d nights", loft.MinStayNights))
    }
    if loft.MaxStayNights > 0 && nights > loft.MaxStayNights {
        res.Errors = append(res.Errors, fmt.Sprintf("maximum stay is %d nights", loft.MaxStayNights))
    }

    // Checkpoint C: pricing must be computable.
    quote, err := pricing.Quote(loft, checkIn, checkOut, s.currency)
    if err != nil {
        res.Errors = append(res.Errors, "could not compute pricing for the selected dates")
        return res
    }
    res.Pricing = &quote

    // Availability; fail closed on query errors.
    overlap, err := s.store.HasOverlap(ctx, req.LoftID, req.CheckInDate, req.CheckOutDate)
    if err != nil {
        log.Printf("reservation: availability query failed for %s: %v", req.LoftID, err)
        overlap = true
    }
    if overlap {
        res.Errors = append(res.Errors, "loft is not available for the selected dates")
    }

    res.Valid = len(res.Errors) == 0
    return res
}

// Create validates the request and, when it passes, assembles and
// persists the reservation. On validation failure no identifiers are
// generated and the insert is never attempted. Constraint violations
// at insert time are translated into actionable messages; every other
// insert failure collapses to a generic one with the raw error logged
// server-side.
func (s *ReservationService) Create(ctx context.Context, req *model.ReservationRequest, customerID *uint64, actor string) CreateResult {
    v := s.Validate(ctx, req)
    if !v.Valid {
        return CreateResult{Errors: v.Errors}
    }

    id, err := utils.NewReservationID()
    if err != nil {
        log.Printf("reservation: id generation failed: %v", err)
        return CreateResult{Errors: []string{"could not create the reservation, please try again"}}
    }
    code, err := utils.NewConfirmationCode()
    if err != nil {
        log.Printf("reservation: confirmation code generation failed: %v", err)
        return CreateResult{Errors: []string{"could not create the reservation, please try again"}}
    }
    ref, err := utils.NewBookingReference(s.now())
    if err != nil {
        log.Printf("reservation: booking reference generation failed: %v", err)
        return CreateResult{Errors: []string{"could not create the reservation, please try again"}}
    }

    now := s.now().UTC()
    if actor == "" {
        actor = "guest"
    }
    rec := &model.Reservation{
        ID:                 id,
        CustomerID:         customerID,
        LoftID:             req.LoftID,
        CheckInDate:        req.CheckInDate,
        CheckOutDate:       req.CheckOutDate,
        Nights:             v.Nights,
        GuestInfo:          req.GuestInfo,
        Pricing:            *v.Pricing,
        SpecialRequests:    req.SpecialRequests,
        DietaryNeeds:       req.DietaryNeeds,
        AccessibilityNeeds: req.AccessibilityNeeds,
        Status:             model.StatusPending,
        PaymentStatus:      model.PaymentPending,
        ConfirmationCode:   code,
        BookingReference:   ref,
        CommunicationPrefs: req.CommunicationPrefs,
        TermsAccepted:      true,
        TermsAcceptedAt:    now,
        TermsVersion:       req.TermsVersion,
        BookingSource:      req.BookingSource,
        UserAgent:          req.UserAgent,
        IPAddress:          req.IPAddress,
        CreatedAt:          now,
        UpdatedAt:          now,
        CreatedBy:          actor,
        UpdatedBy:          actor,
    }

    if err := s.store.Insert(ctx, rec); err != nil {
        switch {
        case errors.Is(err, repository.ErrLoftMissing):
            return CreateResult{Errors: []string{"the loft is no longer available, please refresh and try again"}}
        case errors.Is(err, repository.ErrDuplicateReservation):
            return CreateResult{Errors: []string{"a reservation with these details already exists"}}
        default:
            log.Printf("reservation: insert failed for %s: %v", id, err)
            return CreateResult{Errors: []string{"could not create the reservation, please try again"}}
        }
    }

    // Hand back the persisted row so callers see exactly what storage
    // holds, JSON columns decoded. The insert already succeeded, so a
    // read failure here only degrades the response to the assembled
    // record.
    stored, err := s.store.GetByID(ctx, id)
    if err != nil {
        log.Printf("reservation: read-back failed for %s: %v", id, err)
        stored = rec
    }

    return CreateResult{
        Success:          true,
        Reservation:      stored,
        ConfirmationCode: code,
        BookingReference: ref,
    }
}

// Lookup fetches a reservation by internal id, confirmation code or
// booking reference.
func (s *ReservationService) Lookup(ctx context.Context, code string) (*model.Reservation, error) {
    return s.store.GetByAnyCode(ctx, code)
}

// UpdateStatus moves a reservation to a new lifecycle status after
// checking the transition table: pending may become confirmed or
// cancelled; confirmed may become completed, cancelled or no_show;
// terminal states reject everything. Returns true only when the row
// was updated.
func (s *ReservationService) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus, actor string) (bool, error) {
    if !model.ValidStatus(status) {
        return false, ErrIllegalTransition
    }
    cur, err := s.store.GetByID(ctx, id)
    if err != nil {
        return false, err
    }
    if !model.CanTransition(cur.Status, status) {
        return false, ErrIllegalTransition
    }
    if err := s.store.UpdateStatus(ctx, id, status, actor); err != nil {
        return false, err
    }
    return true, nil
}

// UpdatePaymentStatus records payment progress on a reservation.
// Payment moves independently of the lifecycle (a confirmed stay may
// be unpaid, a cancelled one refunded), so any known payment status
// is accepted; unknown values are rejected before touching storage.
func (s *ReservationService) UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus, actor string) (bool, error) {
    if !model.ValidPaymentStatus(status) {
        return false, ErrUnknownPaymentStatus
    }
    if err := s.store.UpdatePaymentStatus(ctx, id, status, actor); err != nil {
        return false, err
    }
    return true, nil
}

// Cancel marks a reservation cancelled with a reason. It follows the
// same legality table as UpdateStatus, so completed or no_show stays
// cannot be cancelled after the fact.
func (s *ReservationService) Cancel(ctx context.Context, id, reason, actor string) (bool, error) {
    cur, err := s.store.GetByID(ctx, id)
    if err != nil {
        return false, err
    }
    if !model.CanTransition(cur.Status, model.StatusCancelled) {
        return false, ErrIllegalTransition
    }
    if err := s.store.Cancel(ctx, id, reason, actor); err != nil {
        return false, err
    }
    return true, nil
}

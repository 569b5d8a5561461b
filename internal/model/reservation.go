package model

import "time"

// GuestInfo is the structured guest composition attached to a
// reservation. TotalGuests must equal Adults+Children; infants stay
// with an adult and do not count toward loft capacity.
type GuestInfo struct {
    Adults      int `json:"adults"`
    Children    int `json:"children"`
    Infants     int `json:"infants"`
    TotalGuests int `json:"total_guests"`
}

// CommunicationPreferences records how a guest wants to be contacted
// about their reservation.
type CommunicationPreferences struct {
    Email bool `json:"email"`
    SMS   bool `json:"sms"`
    Phone bool `json:"phone"`
}

// NightRate is a single entry of the per-night rate ledger inside a
// pricing breakdown. Type is currently always "nightly_rate"; the
// shape leaves room for per-day rate overrides later.
type NightRate struct {
    Date string `json:"date"` // YYYY-MM-DD
    Rate int64  `json:"rate"` // cents
    Type string `json:"type"`
}

// PricingBreakdown is the itemized price quote for a stay. All
// amounts are integer cents. It is derived entirely from the loft's
// rate data and the requested date range and recomputed on every
// validation, never mutated in place.
type PricingBreakdown struct {
    Nights         int         `json:"nights"`
    NightlyRate    int64       `json:"nightly_rate"`
    BasePrice      int64       `json:"base_price"`
    CleaningFee    int64       `json:"cleaning_fee"`
    ServiceFee     int64       `json:"service_fee"`
    Taxes          int64       `json:"taxes"`
    Total          int64       `json:"total"`
    Currency       string      `json:"currency"`
    NightlyRates   []NightRate `json:"nightly_rates"`
    TaxRatePercent int64       `json:"tax_rate_percent"`
}

// ReservationRequest is the raw input to validation and creation. All
// fields arrive from the client untrusted; the service layer decides
// accept/reject before anything is persisted.
type ReservationRequest struct {
    LoftID             string                   `json:"loft_id"`
    CheckInDate        string                   `json:"check_in_date"`  // YYYY-MM-DD
    CheckOutDate       string                   `json:"check_out_date"` // YYYY-MM-DD
    Guests             int                      `json:"guests"`
    GuestInfo          GuestInfo                `json:"guest_info"`
    SpecialRequests    string                   `json:"special_requests,omitempty"`
    DietaryNeeds       string                   `json:"dietary_requirements,omitempty"`
    AccessibilityNeeds string                   `json:"accessibility_needs,omitempty"`
    TermsAccepted      bool                     `json:"terms_accepted"`
    TermsVersion       string                   `json:"terms_version,omitempty"`
    CommunicationPrefs CommunicationPreferences `json:"communication_preferences"`
    BookingSource      string                   `json:"booking_source,omitempty"`
    UserAgent          string                   `json:"user_agent,omitempty"`
    IPAddress          string                   `json:"ip_address,omitempty"`
}

// Reservation is the persisted record for a guest's stay. Status and
// PaymentStatus are the only fields mutated after creation, via the
// explicit transition and cancellation operations; rows are never
// deleted, only marked cancelled.
//
// ConfirmationCode and BookingReference are two independently
// generated human-facing identifiers for the same reservation,
// distinct from the internal ID used as the primary key.
type Reservation struct {
    ID                 string                   // reservations.id
    CustomerID         *uint64                  // reservations.customer_id (nullable)
    LoftID             string                   // reservations.loft_id
    CheckInDate        string                   // reservations.check_in_date
    CheckOutDate       string                   // reservations.check_out_date
    Nights             int                      // reservations.nights
    GuestInfo          GuestInfo                // reservations.guest_info (JSON)
    Pricing            PricingBreakdown         // reservations.pricing (JSON)
    SpecialRequests    string                   // reservations.special_requests
    DietaryNeeds       string                   // reservations.dietary_requirements
    AccessibilityNeeds string                   // reservations.accessibility_needs
    Status             ReservationStatus        // reservations.status
    PaymentStatus      PaymentStatus            // reservations.payment_status
    ConfirmationCode   string                   // reservations.confirmation_code
    BookingReference   string                   // reservations.booking_reference
    CommunicationPrefs CommunicationPreferences // reservations.communication_preferences (JSON)
    TermsAccepted      bool                     // reservations.terms_accepted
    TermsAcceptedAt    time.Time                // reservations.terms_accepted_at
    TermsVersion       string                   // reservations.terms_version
    BookingSource      string                   // reservations.booking_source
    UserAgent          string                   // reservations.user_agent
    IPAddress          string                   // reservations.ip_address
    CancelReason       *string                  // reservations.cancel_reason (nullable)
    CancelledAt        *time.Time               // reservations.cancelled_at (nullable)
    CreatedAt          time.Time                // reservations.created_at
    UpdatedAt          time.Time                // reservations.updated_at
    CreatedBy          string                   // reservations.created_by
    UpdatedBy          string                   // reservations.updated_by
}

package model

import "time"

// Loft describes a rentable unit (apartment) offered by a partner.
// Rate data on the loft is treated as read-only reference data by the
// reservation flow: pricing is always recomputed from the current row,
// never cached alongside a reservation request.
//
// Fields:
//  ID               – opaque public identifier (UUID string).
//  PartnerID        – user who manages the loft.
//  Name             – display name shown to guests.
//  NightlyRateCents – price per night in cents.
//  CleaningFeeCents – optional one-off cleaning fee in cents.
//  TaxRatePercent   – optional tax rate in percent; nil means the
//                     configured default (19) applies.
//  MaxGuests        – capacity limit enforced during validation.
//  MinStayNights    – minimum number of nights per reservation.
//  MaxStayNights    – maximum number of nights per reservation; 0 means
//                     no upper bound.
//  IsActive         – inactive lofts are hidden from public browsing.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Loft struct {
    ID               string    // lofts.id
    PartnerID        uint64    // lofts.partner_id
    Name             string    // lofts.name
    NightlyRateCents int64     // lofts.nightly_rate_cents
    CleaningFeeCents *int64    // lofts.cleaning_fee_cents (nullable)
    TaxRatePercent   *int64    // lofts.tax_rate_percent (nullable)
    MaxGuests        int       // lofts.max_guests
    MinStayNights    int       // lofts.min_stay_nights
    MaxStayNights    int       // lofts.max_stay_nights
    IsActive         bool      // lofts.is_active
    CreatedAt        time.Time // lofts.created_at
    UpdatedAt        time.Time // lofts.updated_at
}

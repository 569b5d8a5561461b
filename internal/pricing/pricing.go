// Package pricing computes deterministic price quotes for a stay.
// Everything here is a pure function of the loft's rate data and the
// requested date range: no I/O, no clock reads, no hidden state. The
// reservation service recomputes a quote on every validation instead
// of caching one, so two calls with identical inputs must produce
// identical output.
package pricing

import (
    "errors"
    "time"

    "github.com/iliyamo/loft-reservation/internal/model"
)

const (
    // ServiceFeePercent is the platform service fee applied to the
    // base price, in percent.
    ServiceFeePercent = 12

    // DefaultTaxRatePercent applies when the loft carries no tax
    // rate of its own.
    DefaultTaxRatePercent = 19

    // DateLayout is the wire format for check-in/check-out dates.
    DateLayout = "2006-01-02"
)

// ErrNonPositiveNights is returned when the date range does not span
// at least one night. Validation normally rejects such ranges before
// pricing runs; this guards the case where one slips through.
var ErrNonPositiveNights = errors.New("pricing: stay must cover at least one night")

// Nights returns the number of nights between check-in and check-out
// as the ceiling of the whole-day difference. A range of exactly 24
// hours yields 1, not 0.
func Nights(checkIn, checkOut time.Time) int {
    d := checkOut.Sub(checkIn)
    if d <= 0 {
        return 0
    }
    nights := int(d / (24 * time.Hour))
    if d%(24*time.Hour) != 0 {
        nights++
    }
    return nights
}

// roundPercent applies a percentage to an amount in cents and rounds
// the result half-up to the nearest cent.
func roundPercent(amount, percent int64) int64 {
    return (amount*percent + 50) / 100
}

// Quote builds the itemized breakdown for a stay at the given loft.
// All amounts are integer cents. Taxes apply to the base price plus
// the service fee, never to the cleaning fee. The per-night ledger is
// generated by walking forward one day at a time from check-in and
// currently repeats the flat nightly rate for every night.
func Quote(loft *model.Loft, checkIn, checkOut time.Time, currency string) (model.PricingBreakdown, error) {
    nights := Nights(checkIn, checkOut)
    if nights <= 0 {
        return model.PricingBreakdown{}, ErrNonPositiveNights
    }

    base := int64(nights) * loft.NightlyRateCents

    var cleaning int64
    if loft.CleaningFeeCents != nil {
        cleaning = *loft.CleaningFeeCents
    }

    service := roundPercent(base, ServiceFeePercent)

    taxRate := int64(DefaultTaxRatePercent)
    if loft.TaxRatePercent != nil {
        taxRate = *loft.TaxRatePercent
    }
    taxes := roundPercent(base+service, taxRate)

    ledger := make([]model.NightRate, 0, nights)
    for day := checkIn; len(ledger) < nights; day = day.AddDate(0, 0, 1) {
        ledger = append(ledger, model.NightRate{
            Date: day.Format(DateLayout),
            Rate: loft.NightlyRateCents,
            Type: "nightly_rate",
        })
    }

    return model.PricingBreakdown{
        Nights:         nights,
        NightlyRate:    loft.NightlyRateCents,
        BasePrice:      base,
        CleaningFee:    cleaning,
        ServiceFee:     service,
        Taxes:          taxes,
        Total:          base + cleaning + service + taxes,
        Currency:       currency,
        NightlyRates:   ledger,
        TaxRatePercent: taxRate,
    }, nil
}

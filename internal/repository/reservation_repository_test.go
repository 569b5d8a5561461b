package repository

import (
    "database/sql"
    "encoding/json"
    "fmt"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/loft-reservation/internal/model"
)

// fakeRow feeds a prepared column list through the same Scan contract
// the database/sql row types implement.
type fakeRow struct {
    vals []any
}

func (r fakeRow) Scan(dest ...any) error {
    if len(dest) != len(r.vals) {
        return fmt.Errorf("scan: expected %d columns, got %d", len(r.vals), len(dest))
    }
    for i, d := range dest {
        switch p := d.(type) {
        case *string:
            *p = r.vals[i].(string)
        case *int:
            *p = r.vals[i].(int)
        case *bool:
            *p = r.vals[i].(bool)
        case *[]byte:
            *p = r.vals[i].([]byte)
        case *time.Time:
            *p = r.vals[i].(time.Time)
        case *sql.NullInt64:
            *p = r.vals[i].(sql.NullInt64)
        case *sql.NullString:
            *p = r.vals[i].(sql.NullString)
        case *sql.NullTime:
            *p = r.vals[i].(sql.NullTime)
        default:
            return fmt.Errorf("scan: unsupported dest type %T at column %d", d, i)
        }
    }
    return nil
}

// rowFor marshals the structured fields exactly the way Insert does
// and lays the values out in reservationColumns order.
func rowFor(t *testing.T, res *model.Reservation) fakeRow {
    t.Helper()
    guestInfo, err := json.Marshal(res.GuestInfo)
    require.NoError(t, err)
    pricingJSON, err := json.Marshal(res.Pricing)
    require.NoError(t, err)
    prefs, err := json.Marshal(res.CommunicationPrefs)
    require.NoError(t, err)

    customerID := sql.NullInt64{}
    if res.CustomerID != nil {
        customerID = sql.NullInt64{Int64: int64(*res.CustomerID), Valid: true}
    }
    cancelReason := sql.NullString{}
    if res.CancelReason != nil {
        cancelReason = sql.NullString{String: *res.CancelReason, Valid: true}
    }
    cancelledAt := sql.NullTime{}
    if res.CancelledAt != nil {
        cancelledAt = sql.NullTime{Time: *res.CancelledAt, Valid: true}
    }
    checkIn, err := time.Parse("2006-01-02", res.CheckInDate)
    require.NoError(t, err)
    checkOut, err := time.Parse("2006-01-02", res.CheckOutDate)
    require.NoError(t, err)

    return fakeRow{vals: []any{
        res.ID, customerID, res.LoftID, checkIn, checkOut, res.Nights,
        guestInfo, pricingJSON, res.SpecialRequests, res.DietaryNeeds, res.AccessibilityNeeds,
        string(res.Status), string(res.PaymentStatus), res.ConfirmationCode, res.BookingReference,
        prefs, res.TermsAccepted, res.TermsAcceptedAt, res.TermsVersion,
        res.BookingSource, res.UserAgent, res.IPAddress, cancelReason, cancelledAt,
        res.CreatedAt, res.UpdatedAt, res.CreatedBy, res.UpdatedBy,
    }}
}

func sampleReservation() *model.Reservation {
    customerID := uint64(42)
    now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
    return &model.Reservation{
        ID:           "res_abc123_0011223344",
        CustomerID:   &customerID,
        LoftID:       "8f14e45f-ceea-4e07-a1d2-9c6b1f0a7b3d",
        CheckInDate:  "2026-09-10",
        CheckOutDate: "2026-09-14",
        Nights:       4,
        GuestInfo:    model.GuestInfo{Adults: 2, Children: 1, Infants: 1, TotalGuests: 3},
        Pricing: model.PricingBreakdown{
            Nights:      4,
            NightlyRate: 15000,
            BasePrice:   60000,
            CleaningFee: 5000,
            ServiceFee:  7200,
            Taxes:       12768,
            Total:       84968,
            Currency:    "EUR",
            NightlyRates: []model.NightRate{
                {Date: "2026-09-10", Rate: 15000, Type: "nightly_rate"},
                {Date: "2026-09-11", Rate: 15000, Type: "nightly_rate"},
                {Date: "2026-09-12", Rate: 15000, Type: "nightly_rate"},
                {Date: "2026-09-13", Rate: 15000, Type: "nightly_rate"},
            },
            TaxRatePercent: 19,
        },
        SpecialRequests:    "late arrival around 23:00",
        DietaryNeeds:       "vegetarian breakfast",
        AccessibilityNeeds: "step-free access",
        Status:             model.StatusPending,
        PaymentStatus:      model.PaymentPending,
        ConfirmationCode:   "A7K2M9XQ",
        BookingReference:   "LR26042917",
        CommunicationPrefs: model.CommunicationPreferences{Email: true, SMS: true},
        TermsAccepted:      true,
        TermsAcceptedAt:    now,
        TermsVersion:       "2026-01",
        BookingSource:      "web",
        UserAgent:          "Mozilla/5.0",
        IPAddress:          "203.0.113.7",
        CreatedAt:          now,
        UpdatedAt:          now,
        CreatedBy:          "guest:42",
        UpdatedBy:          "guest:42",
    }
}

func TestScanReservationRoundTripsEncodedColumns(t *testing.T) {
    in := sampleReservation()

    out, err := scanReservation(rowFor(t, in))
    require.NoError(t, err)

    // the structured columns survive the marshal/unmarshal cycle intact
    assert.Equal(t, in.GuestInfo, out.GuestInfo)
    assert.Equal(t, in.Pricing, out.Pricing)
    assert.Equal(t, in.CommunicationPrefs, out.CommunicationPrefs)

    // everything else comes back exactly as written
    assert.Equal(t, in, out)
}

func TestScanReservationNullableColumns(t *testing.T) {
    in := sampleReservation()
    in.CustomerID = nil
    in.CancelReason = nil
    in.CancelledAt = nil

    out, err := scanReservation(rowFor(t, in))
    require.NoError(t, err)

    assert.Nil(t, out.CustomerID)
    assert.Nil(t, out.CancelReason)
    assert.Nil(t, out.CancelledAt)
    assert.Equal(t, in, out)
}

func TestScanReservationCancelledRow(t *testing.T) {
    in := sampleReservation()
    in.Status = model.StatusCancelled
    reason := "guest request"
    cancelledAt := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
    in.CancelReason = &reason
    in.CancelledAt = &cancelledAt

    out, err := scanReservation(rowFor(t, in))
    require.NoError(t, err)

    require.NotNil(t, out.CancelReason)
    assert.Equal(t, reason, *out.CancelReason)
    require.NotNil(t, out.CancelledAt)
    assert.Equal(t, cancelledAt, *out.CancelledAt)
    assert.Equal(t, model.StatusCancelled, out.Status)
}

func TestScanReservationEmptyPreferencesColumn(t *testing.T) {
    in := sampleReservation()
    row := rowFor(t, in)
    row.vals[15] = []byte{} // communication_preferences never written

    out, err := scanReservation(row)
    require.NoError(t, err)
    assert.Equal(t, model.CommunicationPreferences{}, out.CommunicationPrefs)
}

func TestScanReservationRejectsCorruptJSON(t *testing.T) {
    in := sampleReservation()
    row := rowFor(t, in)
    row.vals[6] = []byte(`{"adults":`) // truncated guest_info

    _, err := scanReservation(row)
    assert.Error(t, err)
}

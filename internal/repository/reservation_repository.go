package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/loft-reservation/internal/model"
)

// MySQL error numbers the insert path translates into sentinel
// errors. Uniqueness covers both identifier collisions and the
// overlap constraint that guards against double bookings.
const (
    mysqlErrDuplicateEntry = 1062
    mysqlErrForeignKey     = 1452
)

// ReservationRepo provides access to the reservations table. Guest
// info, pricing and communication preferences are stored as JSON text
// columns and decoded back into structs on every read, so callers
// always see the structured form regardless of how the row was
// written. All timestamps are stored in UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// translateInsertErr maps MySQL constraint violations onto the
// package sentinel errors. Anything else passes through untouched so
// the service layer can log it raw.
func translateInsertErr(err error) error {
    var me *mysql.MySQLError
    if errors.As(err, &me) {
        switch me.Number {
        case mysqlErrForeignKey:
            return ErrLoftMissing
        case mysqlErrDuplicateEntry:
            return ErrDuplicateReservation
        }
    }
    return err
}

// Insert persists a fully assembled reservation record. Uniqueness of
// the internal id, confirmation code, booking reference and the
// no-overlap guarantee are all enforced by constraints on the table;
// violations surface as ErrDuplicateReservation or ErrLoftMissing.
func (r *ReservationRepo) Insert(ctx context.Context, res *model.Reservation) error {
    guestInfo, err := json.Marshal(res.GuestInfo)
    if err != nil {
        return err
    }
    pricingJSON, err := json.Marshal(res.Pricing)
    if err != nil {
        return err
    }
    prefs, err := json.Marshal(res.CommunicationPrefs)
    if err != nil {
        return err
    }
    const q = `INSERT INTO reservations
        (id, customer_id, loft_id, check_in_date, check_out_date, nights,
         guest_info, pricing, special_requests, dietary_requirements, accessibility_needs,
         status, payment_status, confirmation_code, booking_reference,
         communication_preferences, terms_accepted, terms_accepted_at, terms_version,
         booking_source, user_agent, ip_address, created_at, updated_at, created_by, updated_by)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
    _, err = r.db.ExecContext(ctx, q,
        res.ID, res.CustomerID, res.LoftID, res.CheckInDate, res.CheckOutDate, res.Nights,
        guestInfo, pricingJSON, res.SpecialRequests, res.DietaryNeeds, res.AccessibilityNeeds,
        string(res.Status), string(res.PaymentStatus), res.ConfirmationCode, res.BookingReference,
        prefs, res.TermsAccepted, res.TermsAcceptedAt, res.TermsVersion,
        res.BookingSource, res.UserAgent, res.IPAddress,
        res.CreatedAt, res.UpdatedAt, res.CreatedBy, res.UpdatedBy,
    )
    if err != nil {
        return translateInsertErr(err)
    }
    return nil
}

// HasOverlap reports whether an active reservation (pending or
// confirmed) for the loft overlaps the requested range using the
// interval predicate: existing.check_in < new.check_out AND
// existing.check_out > new.check_in.
func (r *ReservationRepo) HasOverlap(ctx context.Context, loftID, checkIn, checkOut string) (bool, error) {
    const q = `SELECT COUNT(*) FROM reservations
               WHERE loft_id = ?
                 AND status IN ('pending', 'confirmed')
                 AND check_in_date < ?
                 AND check_out_date > ?`
    var n int
    if err := r.db.QueryRowContext(ctx, q, loftID, checkOut, checkIn).Scan(&n); err != nil {
        return false, err
    }
    return n > 0, nil
}

const reservationColumns = `id, customer_id, loft_id, check_in_date, check_out_date, nights,
        guest_info, pricing, special_requests, dietary_requirements, accessibility_needs,
        status, payment_status, confirmation_code, booking_reference,
        communication_preferences, terms_accepted, terms_accepted_at, terms_version,
        booking_source, user_agent, ip_address, cancel_reason, cancelled_at,
        created_at, updated_at, created_by, updated_by`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
    var res model.Reservation
    var customerID sql.NullInt64
    var checkIn, checkOut time.Time
    var guestInfo, pricingJSON, prefs []byte
    var status, payStatus string
    var cancelReason sql.NullString
    var cancelledAt sql.NullTime
    err := row.Scan(
        &res.ID, &customerID, &res.LoftID, &checkIn, &checkOut, &res.Nights,
        &guestInfo, &pricingJSON, &res.SpecialRequests, &res.DietaryNeeds, &res.AccessibilityNeeds,
        &status, &payStatus, &res.ConfirmationCode, &res.BookingReference,
        &prefs, &res.TermsAccepted, &res.TermsAcceptedAt, &res.TermsVersion,
        &res.BookingSource, &res.UserAgent, &res.IPAddress, &cancelReason, &cancelledAt,
        &res.CreatedAt, &res.UpdatedAt, &res.CreatedBy, &res.UpdatedBy,
    )
    if err != nil {
        return nil, err
    }
    if customerID.Valid {
        v := uint64(customerID.Int64)
        res.CustomerID = &v
    }
    res.CheckInDate = checkIn.Format("2006-01-02")
    res.CheckOutDate = checkOut.Format("2006-01-02")
    res.Status = model.ReservationStatus(status)
    res.PaymentStatus = model.PaymentStatus(payStatus)
    if cancelReason.Valid {
        v := cancelReason.String
        res.CancelReason = &v
    }
    if cancelledAt.Valid {
        v := cancelledAt.Time
        res.CancelledAt = &v
    }
    // Stored as encoded text; hand structured forms back to callers.
    if err := json.Unmarshal(guestInfo, &res.GuestInfo); err != nil {
        return nil, err
    }
    if err := json.Unmarshal(pricingJSON, &res.Pricing); err != nil {
        return nil, err
    }
    if len(prefs) > 0 {
        if err := json.Unmarshal(prefs, &res.CommunicationPrefs); err != nil {
            return nil, err
        }
    }
    return &res, nil
}

// GetByID fetches a reservation by its internal identifier. Returns
// ErrReservationNotFound when no row matches.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? LIMIT 1`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrReservationNotFound
    }
    return res, err
}

// GetByAnyCode fetches a reservation matching the given value against
// the internal id, confirmation code or booking reference (logical OR
// across the three). Confirmation codes and booking references are
// matched case-insensitively since guests type them by hand.
func (r *ReservationRepo) GetByAnyCode(ctx context.Context, code string) (*model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations
               WHERE id = ? OR confirmation_code = UPPER(?) OR booking_reference = UPPER(?)
               LIMIT 1`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, code, code, code))
    if err == sql.ErrNoRows {
        return nil, ErrReservationNotFound
    }
    return res, err
}

// ListByCustomer returns all reservations created by the given
// account, newest first.
func (r *ReservationRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations
               WHERE customer_id = ? ORDER BY created_at DESC`
    return r.list(ctx, q, customerID)
}

// ListByLoft returns all reservations for a loft, newest first. The
// caller is responsible for checking that the requester may see them.
func (r *ReservationRepo) ListByLoft(ctx context.Context, loftID string) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations
               WHERE loft_id = ? ORDER BY created_at DESC`
    return r.list(ctx, q, loftID)
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// UpdateStatus overwrites the lifecycle status of a reservation and
// stamps the update time and actor. Legality of the transition is the
// service layer's concern; this is a plain field-level update.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus, updatedBy string) error {
    const q = `UPDATE reservations SET status = ?, updated_at = ?, updated_by = ? WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, string(status), time.Now().UTC(), updatedBy, id)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrReservationNotFound
    }
    return nil
}

// UpdatePaymentStatus overwrites the payment status of a reservation
// and stamps the update time and actor. Payment progress is tracked
// independently of the lifecycle status, so there is no legality
// table to consult here; the service only checks the value is known.
func (r *ReservationRepo) UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus, updatedBy string) error {
    const q = `UPDATE reservations SET payment_status = ?, updated_at = ?, updated_by = ? WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, string(status), time.Now().UTC(), updatedBy, id)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrReservationNotFound
    }
    return nil
}

// Cancel marks a reservation cancelled and records the reason, actor
// and time. Like UpdateStatus it performs no legality check itself.
func (r *ReservationRepo) Cancel(ctx context.Context, id, reason, cancelledBy string) error {
    now := time.Now().UTC()
    const q = `UPDATE reservations
               SET status = 'cancelled', cancel_reason = ?, cancelled_at = ?,
                   updated_at = ?, updated_by = ?
               WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, reason, now, now, cancelledBy, id)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrReservationNotFound
    }
    return nil
}

package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/loft-reservation/internal/model"
)

// LoftRepo provides access to the lofts table. Lofts are reference
// data for the reservation flow: the service reads rates and capacity
// from here and never writes back through this path. Writes happen
// only through the partner portal endpoints. All timestamps are UTC.
type LoftRepo struct {
    db *sql.DB
}

// NewLoftRepo returns a new LoftRepo bound to the given database.
func NewLoftRepo(db *sql.DB) *LoftRepo { return &LoftRepo{db: db} }

const loftColumns = `id, partner_id, name, nightly_rate_cents, cleaning_fee_cents,
        tax_rate_percent, max_guests, min_stay_nights, max_stay_nights, is_active,
        created_at, updated_at`

func scanLoft(row interface{ Scan(...any) error }) (*model.Loft, error) {
    var l model.Loft
    var cleaning, taxRate sql.NullInt64
    err := row.Scan(
        &l.ID, &l.PartnerID, &l.Name, &l.NightlyRateCents, &cleaning,
        &taxRate, &l.MaxGuests, &l.MinStayNights, &l.MaxStayNights, &l.IsActive,
        &l.CreatedAt, &l.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if cleaning.Valid {
        v := cleaning.Int64
        l.CleaningFeeCents = &v
    }
    if taxRate.Valid {
        v := taxRate.Int64
        l.TaxRatePercent = &v
    }
    return &l, nil
}

// GetByID fetches a single active loft by its public identifier.
// Returns ErrLoftNotFound when no active row matches.
func (r *LoftRepo) GetByID(ctx context.Context, id string) (*model.Loft, error) {
    const q = `SELECT ` + loftColumns + ` FROM lofts WHERE id = ? AND is_active = 1 LIMIT 1`
    l, err := scanLoft(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrLoftNotFound
    }
    if err != nil {
        return nil, err
    }
    return l, nil
}

// ListActive returns all active lofts ordered by name for public
// browsing. When no lofts exist an empty slice is returned.
func (r *LoftRepo) ListActive(ctx context.Context) ([]model.Loft, error) {
    const q = `SELECT ` + loftColumns + ` FROM lofts WHERE is_active = 1 ORDER BY name`
    return r.list(ctx, q)
}

// ListByPartner returns every loft (active or not) managed by the
// given partner, newest first.
func (r *LoftRepo) ListByPartner(ctx context.Context, partnerID uint64) ([]model.Loft, error) {
    const q = `SELECT ` + loftColumns + ` FROM lofts WHERE partner_id = ? ORDER BY created_at DESC`
    return r.list(ctx, q, partnerID)
}

func (r *LoftRepo) list(ctx context.Context, q string, args ...any) ([]model.Loft, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    lofts := make([]model.Loft, 0)
    for rows.Next() {
        l, err := scanLoft(rows)
        if err != nil {
            return nil, err
        }
        lofts = append(lofts, *l)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return lofts, nil
}

// Create inserts a new loft for the partner and returns its generated
// public identifier.
func (r *LoftRepo) Create(ctx context.Context, l *model.Loft) (string, error) {
    id := uuid.NewString()
    const q = `INSERT INTO lofts (id, partner_id, name, nightly_rate_cents, cleaning_fee_cents,
               tax_rate_percent, max_guests, min_stay_nights, max_stay_nights, is_active)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q,
        id, l.PartnerID, strings.TrimSpace(l.Name), l.NightlyRateCents, l.CleaningFeeCents,
        l.TaxRatePercent, l.MaxGuests, l.MinStayNights, l.MaxStayNights, l.IsActive,
    )
    if err != nil {
        return "", err
    }
    return id, nil
}

// Update overwrites the mutable columns of a loft owned by the given
// partner. It returns ErrLoftNotFound when the loft does not exist
// and ErrForbidden when it belongs to a different partner.
func (r *LoftRepo) Update(ctx context.Context, partnerID uint64, l *model.Loft) error {
    var owner uint64
    err := r.db.QueryRowContext(ctx, `SELECT partner_id FROM lofts WHERE id = ?`, l.ID).Scan(&owner)
    if err == sql.ErrNoRows {
        return ErrLoftNotFound
    }
    if err != nil {
        return err
    }
    if owner != partnerID {
        return ErrForbidden
    }
    const q = `UPDATE lofts SET name = ?, nightly_rate_cents = ?, cleaning_fee_cents = ?,
               tax_rate_percent = ?, max_guests = ?, min_stay_nights = ?, max_stay_nights = ?,
               is_active = ?, updated_at = ? WHERE id = ?`
    _, err = r.db.ExecContext(ctx, q,
        strings.TrimSpace(l.Name), l.NightlyRateCents, l.CleaningFeeCents,
        l.TaxRatePercent, l.MaxGuests, l.MinStayNights, l.MaxStayNights,
        l.IsActive, time.Now().UTC(), l.ID,
    )
    return err
}

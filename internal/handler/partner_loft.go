package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/loft-reservation/internal/model"
    "github.com/iliyamo/loft-reservation/internal/repository"
    "github.com/iliyamo/loft-reservation/internal/validate"
)

// PartnerHandler exposes the partner portal endpoints for managing
// lofts. Reservation management for partners lives in
// partner_reservation.go. All methods assume the PARTNER or ADMIN
// role was enforced by middleware.
type PartnerHandler struct {
    Lofts *repository.LoftRepo
}

// NewPartnerHandler constructs a PartnerHandler.
func NewPartnerHandler(lofts *repository.LoftRepo) *PartnerHandler {
    if lofts == nil {
        panic("nil repository passed to NewPartnerHandler")
    }
    return &PartnerHandler{Lofts: lofts}
}

type loftBody struct {
    Name             string `json:"name"`
    NightlyRateCents int64  `json:"nightly_rate_cents"`
    CleaningFeeCents *int64 `json:"cleaning_fee_cents"`
    TaxRatePercent   *int64 `json:"tax_rate_percent"`
    MaxGuests        int    `json:"max_guests"`
    MinStayNights    int    `json:"min_stay_nights"`
    MaxStayNights    int    `json:"max_stay_nights"`
    IsActive         *bool  `json:"is_active"`
}

func (b *loftBody) problems() []string {
    var errs []string
    if strings.TrimSpace(b.Name) == "" {
        errs = append(errs, "name is required")
    }
    if b.NightlyRateCents <= 0 {
        errs = append(errs, "nightly_rate_cents must be positive")
    }
    if b.CleaningFeeCents != nil && *b.CleaningFeeCents < 0 {
        errs = append(errs, "cleaning_fee_cents must not be negative")
    }
    if b.TaxRatePercent != nil && (*b.TaxRatePercent < 0 || *b.TaxRatePercent > 100) {
        errs = append(errs, "tax_rate_percent must be between 0 and 100")
    }
    if b.MaxGuests < 1 {
        errs = append(errs, "max_guests must be at least 1")
    }
    if b.MinStayNights < 0 || b.MaxStayNights < 0 {
        errs = append(errs, "stay limits must not be negative")
    }
    if b.MaxStayNights > 0 && b.MinStayNights > b.MaxStayNights {
        errs = append(errs, "min_stay_nights must not exceed max_stay_nights")
    }
    return errs
}

// ListMyLofts handles GET /v1/partner/lofts.
func (h *PartnerHandler) ListMyLofts(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    lofts, err := h.Lofts.ListByPartner(c.Request().Context(), uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"lofts": lofts})
}

// CreateLoft handles POST /v1/partner/lofts.
func (h *PartnerHandler) CreateLoft(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body loftBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if errs := body.problems(); len(errs) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
    }
    active := true
    if body.IsActive != nil {
        active = *body.IsActive
    }
    loft := &model.Loft{
        PartnerID:        uid,
        Name:             body.Name,
        NightlyRateCents: body.NightlyRateCents,
        CleaningFeeCents: body.CleaningFeeCents,
        TaxRatePercent:   body.TaxRatePercent,
        MaxGuests:        body.MaxGuests,
        MinStayNights:    body.MinStayNights,
        MaxStayNights:    body.MaxStayNights,
        IsActive:         active,
    }
    id, err := h.Lofts.Create(c.Request().Context(), loft)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create loft failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateLoft handles PATCH /v1/partner/lofts/:id. The body carries
// the full set of mutable fields; partial updates are expressed by
// sending the current values back.
func (h *PartnerHandler) UpdateLoft(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id := c.Param("id")
    if !validate.LoftID(id) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid loft id"})
    }
    var body loftBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if errs := body.problems(); len(errs) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
    }
    active := true
    if body.IsActive != nil {
        active = *body.IsActive
    }
    loft := &model.Loft{
        ID:               id,
        Name:             body.Name,
        NightlyRateCents: body.NightlyRateCents,
        CleaningFeeCents: body.CleaningFeeCents,
        TaxRatePercent:   body.TaxRatePercent,
        MaxGuests:        body.MaxGuests,
        MinStayNights:    body.MinStayNights,
        MaxStayNights:    body.MaxStayNights,
        IsActive:         active,
    }
    if err := h.Lofts.Update(c.Request().Context(), uid, loft); err != nil {
        switch {
        case errors.Is(err, repository.ErrLoftNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "loft not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update loft failed"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

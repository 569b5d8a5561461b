package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/loft-reservation/internal/model"
    "github.com/iliyamo/loft-reservation/internal/pricing"
    "github.com/iliyamo/loft-reservation/internal/repository"
    "github.com/iliyamo/loft-reservation/internal/validate"
)

// PublicHandler exposes unauthenticated browse endpoints: loft
// listings, availability checks and price quotes. Responses are
// sanitized so partner-internal fields never leave the server.
type PublicHandler struct {
    Lofts        *repository.LoftRepo
    Reservations *repository.ReservationRepo
    Currency     string
}

// NewPublicHandler constructs a PublicHandler with the provided repositories.
func NewPublicHandler(lofts *repository.LoftRepo, reservations *repository.ReservationRepo, currency string) *PublicHandler {
    if lofts == nil || reservations == nil {
        panic("nil repository passed to NewPublicHandler")
    }
    return &PublicHandler{Lofts: lofts, Reservations: reservations, Currency: currency}
}

// publicLoft is the guest-facing projection of a loft row.
type publicLoft struct {
    ID               string `json:"id"`
    Name             string `json:"name"`
    NightlyRateCents int64  `json:"nightly_rate_cents"`
    CleaningFeeCents int64  `json:"cleaning_fee_cents"`
    MaxGuests        int    `json:"max_guests"`
    MinStayNights    int    `json:"min_stay_nights"`
    MaxStayNights    int    `json:"max_stay_nights"`
}

func toPublicLoft(l *model.Loft) publicLoft {
    p := publicLoft{
        ID:               l.ID,
        Name:             l.Name,
        NightlyRateCents: l.NightlyRateCents,
        MaxGuests:        l.MaxGuests,
        MinStayNights:    l.MinStayNights,
        MaxStayNights:    l.MaxStayNights,
    }
    if l.CleaningFeeCents != nil {
        p.CleaningFeeCents = *l.CleaningFeeCents
    }
    return p
}

// ListLofts handles GET /v1/lofts and returns all active lofts.
func (h *PublicHandler) ListLofts(c echo.Context) error {
    lofts, err := h.Lofts.ListActive(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]publicLoft, 0, len(lofts))
    for i := range lofts {
        out = append(out, toPublicLoft(&lofts[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"lofts": out})
}

// GetLoft handles GET /v1/lofts/:id.
func (h *PublicHandler) GetLoft(c echo.Context) error {
    id := c.Param("id")
    if !validate.LoftID(id) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid loft id"})
    }
    loft, err := h.Lofts.GetByID(c.Request().Context(), id)
    if err != nil {
        if err == repository.ErrLoftNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "loft not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, toPublicLoft(loft))
}

// parseRange reads and validates the check_in/check_out query
// parameters shared by the availability and quote endpoints.
func parseRange(c echo.Context) (time.Time, time.Time, string, string, bool) {
    inStr := c.QueryParam("check_in")
    outStr := c.QueryParam("check_out")
    in, errIn := time.Parse(pricing.DateLayout, inStr)
    out, errOut := time.Parse(pricing.DateLayout, outStr)
    if errIn != nil || errOut != nil || !in.Before(out) {
        return time.Time{}, time.Time{}, "", "", false
    }
    return in, out, inStr, outStr, true
}

// Availability handles GET /v1/lofts/:id/availability. It applies the
// same overlap predicate the reservation pipeline uses. A failing
// query reports unavailable rather than guessing.
func (h *PublicHandler) Availability(c echo.Context) error {
    id := c.Param("id")
    if !validate.LoftID(id) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid loft id"})
    }
    _, _, inStr, outStr, ok := parseRange(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in and check_out must be valid dates with check_in before check_out"})
    }
    ctx := c.Request().Context()
    if _, err := h.Lofts.GetByID(ctx, id); err != nil {
        if err == repository.ErrLoftNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "loft not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    overlap, err := h.Reservations.HasOverlap(ctx, id, inStr, outStr)
    if err != nil {
        overlap = true // fail closed
    }
    return c.JSON(http.StatusOK, echo.Map{
        "loft_id":   id,
        "check_in":  inStr,
        "check_out": outStr,
        "available": !overlap,
    })
}

// Quote handles GET /v1/lofts/:id/quote and returns the itemized
// price breakdown for the requested range without creating anything.
func (h *PublicHandler) Quote(c echo.Context) error {
    id := c.Param("id")
    if !validate.LoftID(id) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid loft id"})
    }
    in, out, _, _, ok := parseRange(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in and check_out must be valid dates with check_in before check_out"})
    }
    loft, err := h.Lofts.GetByID(c.Request().Context(), id)
    if err != nil {
        if err == repository.ErrLoftNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "loft not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    quote, err := pricing.Quote(loft, in, out, h.Currency)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not compute pricing for the selected dates"})
    }
    return c.JSON(http.StatusOK, quote)
}

package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/loft-reservation/internal/model"
    "github.com/iliyamo/loft-reservation/internal/repository"
    "github.com/iliyamo/loft-reservation/internal/service"
    "github.com/iliyamo/loft-reservation/internal/validate"
)

// PartnerReservationHandler exposes reservation management for
// partners: listing a loft's bookings and moving them through the
// lifecycle (confirm, complete, no_show, cancel). Ownership of the
// underlying loft is verified on every call; admins bypass the check.
type PartnerReservationHandler struct {
    Svc          *service.ReservationService
    Reservations *repository.ReservationRepo
    Lofts        *repository.LoftRepo
}

// NewPartnerReservationHandler constructs the handler. All
// dependencies must be non-nil.
func NewPartnerReservationHandler(svc *service.ReservationService, reservations *repository.ReservationRepo, lofts *repository.LoftRepo) *PartnerReservationHandler {
    if svc == nil || reservations == nil || lofts == nil {
        panic("nil dependency passed to NewPartnerReservationHandler")
    }
    return &PartnerReservationHandler{Svc: svc, Reservations: reservations, Lofts: lofts}
}

// ownsLoft verifies that the caller manages the given loft. Admins
// always pass.
func (h *PartnerReservationHandler) ownsLoft(c echo.Context, loftID string) (bool, error) {
    role, _ := c.Get("role").(string)
    if role == "ADMIN" {
        return true, nil
    }
    uid, err := getUserID(c)
    if err != nil {
        return false, err
    }
    loft, err := h.Lofts.GetByID(c.Request().Context(), loftID)
    if err != nil {
        return false, err
    }
    return loft.PartnerID == uid, nil
}

// ListLoftReservations handles GET /v1/partner/lofts/:id/reservations.
func (h *PartnerReservationHandler) ListLoftReservations(c echo.Context) error {
    loftID := c.Param("id")
    if !validate.LoftID(loftID) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid loft id"})
    }
    ok, err := h.ownsLoft(c, loftID)
    if err != nil {
        if errors.Is(err, repository.ErrLoftNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "loft not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !ok {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    list, err := h.Reservations.ListByLoft(c.Request().Context(), loftID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]reservationView, 0, len(list))
    for i := range list {
        out = append(out, toReservationView(&list[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// UpdateReservationStatus handles PATCH /v1/partner/reservations/:id/status.
// The transition must be legal per the lifecycle table; illegal moves
// return 409 rather than silently overwriting.
func (h *PartnerReservationHandler) UpdateReservationStatus(c echo.Context) error {
    id := c.Param("id")
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil || body.Status == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
    }
    ctx := c.Request().Context()

    rec, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    ok, err := h.ownsLoft(c, rec.LoftID)
    if err != nil && !errors.Is(err, repository.ErrLoftNotFound) {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !ok {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    updated, err := h.Svc.UpdateStatus(ctx, id, model.ReservationStatus(body.Status), actorTag(c))
    if err != nil {
        if errors.Is(err, service.ErrIllegalTransition) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "illegal status transition"})
        }
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"updated": updated, "status": body.Status})
}

// UpdateReservationPaymentStatus handles
// PATCH /v1/partner/reservations/:id/payment. Partners record payment
// progress (paid, partial, refunded, failed) as money moves outside
// the platform; unknown values are rejected with 400.
func (h *PartnerReservationHandler) UpdateReservationPaymentStatus(c echo.Context) error {
    id := c.Param("id")
    var body struct {
        PaymentStatus string `json:"payment_status"`
    }
    if err := c.Bind(&body); err != nil || body.PaymentStatus == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_status is required"})
    }
    ctx := c.Request().Context()

    rec, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    ok, err := h.ownsLoft(c, rec.LoftID)
    if err != nil && !errors.Is(err, repository.ErrLoftNotFound) {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !ok {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    updated, err := h.Svc.UpdatePaymentStatus(ctx, id, model.PaymentStatus(body.PaymentStatus), actorTag(c))
    if err != nil {
        if errors.Is(err, service.ErrUnknownPaymentStatus) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown payment status"})
        }
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"updated": updated, "payment_status": body.PaymentStatus})
}

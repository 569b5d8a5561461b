package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/loft-reservation/internal/model"
    "github.com/iliyamo/loft-reservation/internal/queue"
    "github.com/iliyamo/loft-reservation/internal/repository"
    "github.com/iliyamo/loft-reservation/internal/service"
)

// GuestHandler exposes the reservation endpoints available to
// authenticated guests: price validation, booking, listing, lookup by
// code and cancellation. All methods assume JWT authentication and
// role validation have already run in middleware.
type GuestHandler struct {
    Svc          *service.ReservationService
    Reservations *repository.ReservationRepo
    Lofts        *repository.LoftRepo
}

// NewGuestHandler constructs a GuestHandler. All dependencies must be non-nil.
func NewGuestHandler(svc *service.ReservationService, reservations *repository.ReservationRepo, lofts *repository.LoftRepo) *GuestHandler {
    if svc == nil || reservations == nil || lofts == nil {
        panic("nil dependency passed to NewGuestHandler")
    }
    return &GuestHandler{Svc: svc, Reservations: reservations, Lofts: lofts}
}

// bindRequest decodes the reservation request body and stamps the
// transport metadata the client cannot be trusted to supply itself.
func bindRequest(c echo.Context) (*model.ReservationRequest, error) {
    var req model.ReservationRequest
    if err := c.Bind(&req); err != nil {
        return nil, err
    }
    req.UserAgent = c.Request().UserAgent()
    req.IPAddress = c.RealIP()
    if req.BookingSource == "" {
        req.BookingSource = "web"
    }
    return &req, nil
}

// ValidateReservation handles POST /v1/reservations/validate. It runs
// the full validation pipeline without persisting anything, so the
// client can show a price preview (pricing is attached even when the
// request is invalid, as long as it was computable).
func (h *GuestHandler) ValidateReservation(c echo.Context) error {
    req, err := bindRequest(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    res := h.Svc.Validate(c.Request().Context(), req)
    return c.JSON(http.StatusOK, res)
}

// CreateReservation handles POST /v1/reservations. On success it
// returns 201 with the persisted record and both human-facing codes,
// and publishes a reservation.created event best effort.
func (h *GuestHandler) CreateReservation(c echo.Context) error {
    req, err := bindRequest(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    var customerID *uint64
    if uid, err := getUserID(c); err == nil {
        customerID = &uid
    }

    out := h.Svc.Create(c.Request().Context(), req, customerID, actorTag(c))
    if !out.Success {
        return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "errors": out.Errors})
    }

    rec := out.Reservation
    loftName := ""
    if loft, err := h.Lofts.GetByID(c.Request().Context(), rec.LoftID); err == nil {
        loftName = loft.Name
    }
    _ = queue.PublishReservationCreated(c.Request().Context(), queue.ReservationCreatedEvent{
        ReservationID:    rec.ID,
        ConfirmationCode: out.ConfirmationCode,
        BookingReference: out.BookingReference,
        LoftID:           rec.LoftID,
        LoftName:         loftName,
        CheckInDate:      rec.CheckInDate,
        CheckOutDate:     rec.CheckOutDate,
        Nights:           rec.Nights,
        Guests:           rec.GuestInfo.TotalGuests,
        TotalCents:       rec.Pricing.Total,
        Currency:         rec.Pricing.Currency,
        BookingSource:    rec.BookingSource,
        CreatedAt:        rec.CreatedAt.UTC().Format(time.RFC3339),
    })

    return c.JSON(http.StatusCreated, echo.Map{
        "success":           true,
        "reservation":       toReservationView(rec),
        "confirmation_code": out.ConfirmationCode,
        "booking_reference": out.BookingReference,
    })
}

// ListMyReservations handles GET /v1/reservations and returns all
// reservations created by the calling account, newest first.
func (h *GuestHandler) ListMyReservations(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    list, err := h.Reservations.ListByCustomer(c.Request().Context(), uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]reservationView, 0, len(list))
    for i := range list {
        out = append(out, toReservationView(&list[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// LookupReservation handles GET /v1/reservations/:code. The code may
// be the internal id, the confirmation code or the booking reference.
// Guests only see their own reservations; admins see any.
func (h *GuestHandler) LookupReservation(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    rec, err := h.Svc.Lookup(c.Request().Context(), c.Param("code"))
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    role, _ := c.Get("role").(string)
    if role != "ADMIN" && rec.CustomerID != nil && *rec.CustomerID != uid {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusOK, toReservationView(rec))
}

// CancelReservation handles POST /v1/reservations/:id/cancel. Only
// the reservation's owner (or an admin) may cancel, and only while
// the lifecycle table allows it.
func (h *GuestHandler) CancelReservation(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id := c.Param("id")
    ctx := c.Request().Context()

    rec, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    role, _ := c.Get("role").(string)
    if role != "ADMIN" && (rec.CustomerID == nil || *rec.CustomerID != uid) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    var body struct {
        Reason string `json:"reason"`
    }
    _ = c.Bind(&body)

    ok, err := h.Svc.Cancel(ctx, id, body.Reason, actorTag(c))
    if err != nil {
        if errors.Is(err, service.ErrIllegalTransition) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "reservation can no longer be cancelled"})
        }
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"cancelled": ok})
}

// reservationView is the wire shape of a reservation returned to
// clients. The struct keeps JSON keys aligned with the request field
// names so round-tripping a record through the API is lossless.
type reservationView struct {
    ID                 string                         `json:"id"`
    LoftID             string                         `json:"loft_id"`
    CheckInDate        string                         `json:"check_in_date"`
    CheckOutDate       string                         `json:"check_out_date"`
    Nights             int                            `json:"nights"`
    GuestInfo          model.GuestInfo                `json:"guest_info"`
    Pricing            model.PricingBreakdown         `json:"pricing"`
    SpecialRequests    string                         `json:"special_requests,omitempty"`
    DietaryNeeds       string                         `json:"dietary_requirements,omitempty"`
    AccessibilityNeeds string                         `json:"accessibility_needs,omitempty"`
    Status             model.ReservationStatus        `json:"status"`
    PaymentStatus      model.PaymentStatus            `json:"payment_status"`
    ConfirmationCode   string                         `json:"confirmation_code"`
    BookingReference   string                         `json:"booking_reference"`
    CommunicationPrefs model.CommunicationPreferences `json:"communication_preferences"`
    CreatedAt          string                         `json:"created_at"`
}

func toReservationView(r *model.Reservation) reservationView {
    return reservationView{
        ID:                 r.ID,
        LoftID:             r.LoftID,
        CheckInDate:        r.CheckInDate,
        CheckOutDate:       r.CheckOutDate,
        Nights:             r.Nights,
        GuestInfo:          r.GuestInfo,
        Pricing:            r.Pricing,
        SpecialRequests:    r.SpecialRequests,
        DietaryNeeds:       r.DietaryNeeds,
        AccessibilityNeeds: r.AccessibilityNeeds,
        Status:             r.Status,
        PaymentStatus:      r.PaymentStatus,
        ConfirmationCode:   r.ConfirmationCode,
        BookingReference:   r.BookingReference,
        CommunicationPrefs: r.CommunicationPrefs,
        CreatedAt:          r.CreatedAt.UTC().Format(time.RFC3339),
    }
}

package service

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/loft-reservation/internal/model"
    "github.com/iliyamo/loft-reservation/internal/repository"
)

const loftID = "8f14e45f-ceea-4e07-a1d2-9c6b1f0a7b3d"

type fakeLofts struct {
    loft  *model.Loft
    err   error
    calls int
}

func (f *fakeLofts) GetByID(ctx context.Context, id string) (*model.Loft, error) {
    f.calls++
    if f.err != nil {
        return nil, f.err
    }
    return f.loft, nil
}

type fakeStore struct {
    overlap      bool
    overlapErr   error
    insertErr    error
    updateErr    error
    inserted     *model.Reservation
    existing     *model.Reservation
    overlapCalls int
    insertCalls  int
    statusCalls  int
    paymentCalls int
    cancelCalls  int
}

func (f *fakeStore) HasOverlap(ctx context.Context, loftID, in, out string) (bool, error) {
    f.overlapCalls++
    return f.overlap, f.overlapErr
}

func (f *fakeStore) Insert(ctx context.Context, res *model.Reservation) error {
    f.insertCalls++
    if f.insertErr != nil {
        return f.insertErr
    }
    cp := *res
    f.inserted = &cp
    return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
    if f.existing != nil && f.existing.ID == id {
        return f.existing, nil
    }
    if f.inserted != nil && f.inserted.ID == id {
        return f.inserted, nil
    }
    return nil, repository.ErrReservationNotFound
}

func (f *fakeStore) GetByAnyCode(ctx context.Context, code string) (*model.Reservation, error) {
    return f.GetByID(ctx, code)
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus, by string) error {
    f.statusCalls++
    return f.updateErr
}

func (f *fakeStore) UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus, by string) error {
    f.paymentCalls++
    if f.updateErr != nil {
        return f.updateErr
    }
    if f.existing == nil || f.existing.ID != id {
        return repository.ErrReservationNotFound
    }
    return nil
}

func (f *fakeStore) Cancel(ctx context.Context, id, reason, by string) error {
    f.cancelCalls++
    return f.updateErr
}

func testLoft() *model.Loft {
    cleaning := int64(5000)
    return &model.Loft{
        ID:               loftID,
        Name:             "Altbau Loft Mitte",
        NightlyRateCents: 15000,
        CleaningFeeCents: &cleaning,
        MaxGuests:        4,
        MinStayNights:    2,
        MaxStayNights:    30,
        IsActive:         true,
    }
}

func validRequest() *model.ReservationRequest {
    return &model.ReservationRequest{
        LoftID:        loftID,
        CheckInDate:   "2026-09-10",
        CheckOutDate:  "2026-09-14",
        Guests:        2,
        GuestInfo:     model.GuestInfo{Adults: 2, TotalGuests: 2},
        TermsAccepted: true,
        TermsVersion:  "2026-01",
        BookingSource: "web",
    }
}

func newTestService(lofts *fakeLofts, store *fakeStore) *ReservationService {
    s := NewReservationService(lofts, store, "EUR")
    s.now = func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC) }
    return s
}

func TestValidateAcceptsGoodRequest(t *testing.T) {
    lofts := &fakeLofts{loft: testLoft()}
    store := &fakeStore{}
    s := newTestService(lofts, store)

    res := s.Validate(context.Background(), validRequest())
    assert.True(t, res.Valid)
    assert.Empty(t, res.Errors)
    assert.Equal(t, 4, res.Nights)
    require.NotNil(t, res.Pricing)
    assert.Equal(t, int64(60000), res.Pricing.BasePrice)
    assert.Equal(t, int64(7200), res.Pricing.ServiceFee)
    assert.Equal(t, 1, lofts.calls)
    assert.Equal(t, 1, store.overlapCalls)
}

func TestValidateNilRequest(t *testing.T) {
    lofts := &fakeLofts{loft: testLoft()}
    store := &fakeStore{}
    s := newTestService(lofts, store)

    res := s.Validate(context.Background(), nil)
    assert.False(t, res.Valid)
    assert.Equal(t, []string{"invalid reservation request"}, res.Errors)
    assert.Zero(t, lofts.calls)
    assert.Zero(t, store.overlapCalls)
}

func TestValidateInvertedDatesSkipsCollaborators(t *testing.T) {
    lofts := &fakeLofts{loft: testLoft()}
    store := &fakeStore{}
    s := newTestService(lofts, store)

    req := validRequest()
    req.CheckInDate = "2026-09-14"
    req.CheckOutDate = "2026-09-10"
    res := s.Validate(context.Background(), req)

    assert.False(t, res.Valid)
    assert.Contains(t, res.Errors, "check-out must be after check-in")
    assert.Zero(t, lofts.calls, "loft lookup must not run when shape is invalid")
    assert.Zero(t, store.overlapCalls, "availability must not run when shape is invalid")
}

func TestValidateEqualDatesRejected(t *testing.T) {
    s := newTestService(&fakeLofts{loft: testLoft()}, &fakeStore{})
    req := validRequest()
    req.CheckOutDate = req.CheckInDate
    res := s.Validate(context.Background(), req)
    assert.False(t, res.Valid)
    assert.Contains(t, res.Errors, "check-out must be after check-in")
}

func TestValidateAccumulatesIndependentErrors(t *testing.T) {
    s := newTestService(&fakeLofts{loft: testLoft()}, &fakeStore{})

    req := validRequest()
    req.Guests = 3 // does not match guest_info
    req.TermsAccepted = false
    res := s.Validate(context.Background(), req)

    assert.False(t, res.Valid)
    // both errors must be present together: stage two accumulates
    // instead of short-circuiting on the first failure
    assert.Contains(t, res.Errors, "guest count does not match guest details")
    assert.Contains(t, res.Errors, "terms must be accepted")
}

func TestValidateRejectsUnsafeText(t *testing.T) {
    s := newTestService(&fakeLofts{loft: testLoft()}, &fakeStore{})
    req := validRequest()
    req.SpecialRequests = `<script>alert(1)</script>`
    res := s.Validate(context.Background(), req)
    assert.False(t, res.Valid)
    assert.Contains(t, res.Errors, "special requests contain unsafe content")
}

func TestValidateLoftNotFound(t *testing.T) {
    lofts := &fakeLofts{err: repository.ErrLoftNotFound}
    store := &fakeStore{}
    s := newTestService(lofts, store)

    res := s.Validate(context.Background(), validRequest())
    assert.False(t, res.Valid)
    assert.Equal(t, []string{"loft not found"}, res.Errors)
    assert.Zero(t, store.overlapCalls, "availability must not run without a loft")
}

func TestValidateBusinessRulesAccumulate(t *testing.T) {
    loft := testLoft()
    loft.MaxGuests = 2
    loft.MinStayNights = 5
    s := newTestService(&fakeLofts{loft: loft}, &fakeStore{})

    req := validRequest()
    req.Guests = 3
    req.GuestInfo = model.GuestInfo{Adults: 3, TotalGuests: 3}
    res := s.Validate(context.Background(), req)

    assert.False(t, res.Valid)
    assert.Contains(t, res.Errors, "loft sleeps at most 2 guests")
    assert.Contains(t, res.Errors, "minimum stay is 5 nights")
}

func TestValidateAvailabilityConflictKeepsPricing(t *testing.T) {
    store := &fakeStore{overlap: true}
    s := newTestService(&fakeLofts{loft: testLoft()}, store)

    res := s.Validate(context.Background(), validRequest())
    assert.False(t, res.Valid)
    assert.Contains(t, res.Errors, "loft is not available for the selected dates")
    // partial artifacts survive so callers can show a price preview
    require.NotNil(t, res.Pricing)
    assert.Equal(t, 4, res.Nights)
    require.NotNil(t, res.Loft)
}

func TestValidateAvailabilityFailsClosed(t *testing.T) {
    store := &fakeStore{overlapErr: errors.New("connection reset")}
    s := newTestService(&fakeLofts{loft: testLoft()}, store)

    res := s.Validate(context.Background(), validRequest())
    assert.False(t, res.Valid)
    assert.Contains(t, res.Errors, "loft is not available for the selected dates")
}

func TestCreateInvalidRequestNeverInserts(t *testing.T) {
    store := &fakeStore{}
    s := newTestService(&fakeLofts{loft: testLoft()}, store)

    req := validRequest()
    req.TermsAccepted = false
    out := s.Create(context.Background(), req, nil, "")

    assert.False(t, out.Success)
    assert.Contains(t, out.Errors, "terms must be accepted")
    assert.Zero(t, store.insertCalls)
    assert.Empty(t, out.ConfirmationCode)
}

func TestCreatePersistsPendingRecord(t *testing.T) {
    store := &fakeStore{}
    s := newTestService(&fakeLofts{loft: testLoft()}, store)

    customerID := uint64(42)
    out := s.Create(context.Background(), validRequest(), &customerID, "guest:42")

    require.True(t, out.Success, "errors: %v", out.Errors)
    require.NotNil(t, out.Reservation)
    rec := out.Reservation

    assert.Equal(t, model.StatusPending, rec.Status)
    assert.Equal(t, model.PaymentPending, rec.PaymentStatus)
    assert.Equal(t, loftID, rec.LoftID)
    assert.Equal(t, 4, rec.Nights)
    require.NotNil(t, rec.CustomerID)
    assert.Equal(t, uint64(42), *rec.CustomerID)
    assert.Equal(t, "guest:42", rec.CreatedBy)
    assert.True(t, rec.TermsAccepted)
    assert.False(t, rec.TermsAcceptedAt.IsZero())

    // human-facing codes returned alongside the record
    assert.Equal(t, rec.ConfirmationCode, out.ConfirmationCode)
    assert.Equal(t, rec.BookingReference, out.BookingReference)
    assert.Regexp(t, `^[A-Z0-9]{8}$`, out.ConfirmationCode)
    assert.Regexp(t, `^LR26\d{6}$`, out.BookingReference)

    // pricing snapshot: 4 x 15000 base, 12% service, 19% tax, cleaning excluded from tax
    assert.Equal(t, int64(60000), rec.Pricing.BasePrice)
    assert.Equal(t, int64(5000), rec.Pricing.CleaningFee)
    assert.Equal(t, int64(7200), rec.Pricing.ServiceFee)
    assert.Equal(t, int64(12768), rec.Pricing.Taxes)
    assert.Equal(t, int64(84968), rec.Pricing.Total)
    assert.Equal(t, "EUR", rec.Pricing.Currency)
}

func TestCreateTranslatesConstraintViolations(t *testing.T) {
    cases := []struct {
        name      string
        insertErr error
        message   string
    }{
        {"loft vanished", repository.ErrLoftMissing, "the loft is no longer available, please refresh and try again"},
        {"double booking", repository.ErrDuplicateReservation, "a reservation with these details already exists"},
        {"infrastructure", errors.New("driver: bad connection"), "could not create the reservation, please try again"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            store := &fakeStore{insertErr: tc.insertErr}
            s := newTestService(&fakeLofts{loft: testLoft()}, store)

            out := s.Create(context.Background(), validRequest(), nil, "")
            assert.False(t, out.Success)
            assert.Equal(t, []string{tc.message}, out.Errors)
        })
    }
}

func TestUpdateStatusLegality(t *testing.T) {
    cases := []struct {
        from    model.ReservationStatus
        to      model.ReservationStatus
        allowed bool
    }{
        {model.StatusPending, model.StatusConfirmed, true},
        {model.StatusPending, model.StatusCancelled, true},
        {model.StatusPending, model.StatusCompleted, false},
        {model.StatusConfirmed, model.StatusCompleted, true},
        {model.StatusConfirmed, model.StatusNoShow, true},
        {model.StatusConfirmed, model.StatusPending, false},
        {model.StatusCancelled, model.StatusConfirmed, false},
        {model.StatusCompleted, model.StatusCancelled, false},
        {model.StatusNoShow, model.StatusConfirmed, false},
    }
    for _, tc := range cases {
        t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
            store := &fakeStore{existing: &model.Reservation{ID: "res_1", Status: tc.from}}
            s := newTestService(&fakeLofts{}, store)

            ok, err := s.UpdateStatus(context.Background(), "res_1", tc.to, "admin:1")
            if tc.allowed {
                assert.True(t, ok)
                assert.NoError(t, err)
                assert.Equal(t, 1, store.statusCalls)
            } else {
                assert.False(t, ok)
                assert.ErrorIs(t, err, ErrIllegalTransition)
                assert.Zero(t, store.statusCalls)
            }
        })
    }
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
    s := newTestService(&fakeLofts{}, &fakeStore{existing: &model.Reservation{ID: "res_1", Status: model.StatusPending}})
    ok, err := s.UpdateStatus(context.Background(), "res_1", "archived", "admin:1")
    assert.False(t, ok)
    assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestUpdateStatusMissingReservation(t *testing.T) {
    s := newTestService(&fakeLofts{}, &fakeStore{})
    ok, err := s.UpdateStatus(context.Background(), "res_missing", model.StatusConfirmed, "admin:1")
    assert.False(t, ok)
    assert.ErrorIs(t, err, repository.ErrReservationNotFound)
}

func TestUpdatePaymentStatus(t *testing.T) {
    for _, st := range []model.PaymentStatus{model.PaymentPartial, model.PaymentPaid, model.PaymentRefunded, model.PaymentFailed} {
        store := &fakeStore{existing: &model.Reservation{ID: "res_1", Status: model.StatusConfirmed}}
        s := newTestService(&fakeLofts{}, store)

        ok, err := s.UpdatePaymentStatus(context.Background(), "res_1", st, "partner:7")
        assert.True(t, ok, "payment status %s must be accepted", st)
        assert.NoError(t, err)
        assert.Equal(t, 1, store.paymentCalls)
    }
}

func TestUpdatePaymentStatusUnknownValue(t *testing.T) {
    store := &fakeStore{existing: &model.Reservation{ID: "res_1", Status: model.StatusConfirmed}}
    s := newTestService(&fakeLofts{}, store)

    ok, err := s.UpdatePaymentStatus(context.Background(), "res_1", "chargeback", "partner:7")
    assert.False(t, ok)
    assert.ErrorIs(t, err, ErrUnknownPaymentStatus)
    assert.Zero(t, store.paymentCalls, "storage must not be touched for unknown values")
}

func TestUpdatePaymentStatusMissingReservation(t *testing.T) {
    s := newTestService(&fakeLofts{}, &fakeStore{})
    ok, err := s.UpdatePaymentStatus(context.Background(), "res_missing", model.PaymentPaid, "partner:7")
    assert.False(t, ok)
    assert.ErrorIs(t, err, repository.ErrReservationNotFound)
}

func TestCancel(t *testing.T) {
    store := &fakeStore{existing: &model.Reservation{ID: "res_1", Status: model.StatusConfirmed}}
    s := newTestService(&fakeLofts{}, store)

    ok, err := s.Cancel(context.Background(), "res_1", "guest request", "guest:42")
    assert.True(t, ok)
    assert.NoError(t, err)
    assert.Equal(t, 1, store.cancelCalls)
}

func TestCancelTerminalStateRejected(t *testing.T) {
    for _, st := range []model.ReservationStatus{model.StatusCancelled, model.StatusCompleted, model.StatusNoShow} {
        store := &fakeStore{existing: &model.Reservation{ID: "res_1", Status: st}}
        s := newTestService(&fakeLofts{}, store)

        ok, err := s.Cancel(context.Background(), "res_1", "", "admin:1")
        assert.False(t, ok, "cancel from %s must be rejected", st)
        assert.ErrorIs(t, err, ErrIllegalTransition)
        assert.Zero(t, store.cancelCalls)
    }
}

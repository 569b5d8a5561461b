package validate

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/iliyamo/loft-reservation/internal/model"
)

func TestLoftID(t *testing.T) {
    assert.True(t, LoftID("8f14e45f-ceea-4e07-a1d2-9c6b1f0a7b3d"))
    assert.True(t, LoftID("  8f14e45f-ceea-4e07-a1d2-9c6b1f0a7b3d  ")) // surrounding whitespace tolerated
    assert.False(t, LoftID(""))
    assert.False(t, LoftID("42"))
    assert.False(t, LoftID("8F14E45F-CEEA-4E07-A1D2-9C6B1F0A7B3D")) // upper case rejected
    assert.False(t, LoftID("8f14e45fceea4e07a1d29c6b1f0a7b3d"))     // missing dashes
    assert.False(t, LoftID("8f14e45f-ceea-4e07-a1d2-9c6b1f0a7b3'; DROP TABLE lofts--"))
}

func TestGuestInfo(t *testing.T) {
    assert.True(t, GuestInfo(model.GuestInfo{Adults: 2, Children: 1, Infants: 1, TotalGuests: 3}))
    assert.True(t, GuestInfo(model.GuestInfo{Adults: 1, TotalGuests: 1}))
    assert.False(t, GuestInfo(model.GuestInfo{Adults: 0, TotalGuests: 0}), "at least one adult required")
    assert.False(t, GuestInfo(model.GuestInfo{Adults: 2, Children: -1, TotalGuests: 1}))
    assert.False(t, GuestInfo(model.GuestInfo{Adults: 2, Infants: -2, TotalGuests: 2}))
    assert.False(t, GuestInfo(model.GuestInfo{Adults: 2, Children: 1, TotalGuests: 4}), "total must equal adults+children")
    assert.False(t, GuestInfo(model.GuestInfo{Adults: 2, Children: 1, Infants: 1, TotalGuests: 4}), "infants do not count")
}

func TestSafeText(t *testing.T) {
    assert.True(t, SafeText(""))
    assert.True(t, SafeText("late arrival around 23:00, please leave the key in the lockbox"))
    assert.True(t, SafeText("vegetarian breakfast; allergic to nuts & shellfish"))
    assert.True(t, SafeText("need step-free access, wheelchair user"))

    assert.False(t, SafeText(`<script>alert(1)</script>`))
    assert.False(t, SafeText(`< SCRIPT src="x">`))
    assert.False(t, SafeText(`<img src=x onerror=alert(1)>`))
    assert.False(t, SafeText(`click javascript:void(0)`))
    assert.False(t, SafeText(`<iframe src="https://example.com">`))
    assert.False(t, SafeText(`data:text/html;base64,PHNjcmlwdD4=`))
}

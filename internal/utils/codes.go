package utils

import (
    "crypto/rand"
    "encoding/hex"
    "fmt"
    "math/big"
    "strconv"
    "time"
)

// confirmationAlphabet excludes nothing: codes are read back over the
// phone often enough that we keep the full upper-case alphanumeric set
// the original confirmation emails used.
const confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewReservationID returns the internal reservation identifier: a
// millisecond timestamp in base36 plus a random hex suffix. Collisions
// are negligible but not impossible; the primary-key constraint in the
// database is the actual uniqueness guarantee.
func NewReservationID() (string, error) {
    suffix := make([]byte, 5)
    if _, err := rand.Read(suffix); err != nil {
        return "", err
    }
    ts := strconv.FormatInt(time.Now().UTC().UnixMilli(), 36)
    return "res_" + ts + "_" + hex.EncodeToString(suffix), nil
}

// NewConfirmationCode returns an 8 character upper-case alphanumeric
// code handed to the guest after booking.
func NewConfirmationCode() (string, error) {
    buf := make([]byte, 8)
    max := big.NewInt(int64(len(confirmationAlphabet)))
    for i := range buf {
        n, err := rand.Int(rand.Reader, max)
        if err != nil {
            return "", err
        }
        buf[i] = confirmationAlphabet[n.Int64()]
    }
    return string(buf), nil
}

// NewBookingReference returns the human-typeable booking reference:
// "LR" + two-digit year + a zero-padded six-digit random number, e.g.
// LR26042917. Like the internal ID it is only statistically unique;
// the unique index on the column enforces the rest.
func NewBookingReference(now time.Time) (string, error) {
    n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
    if err != nil {
        return "", err
    }
    return fmt.Sprintf("LR%02d%06d", now.UTC().Year()%100, n.Int64()), nil
}

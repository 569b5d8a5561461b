// Package validate holds the pure predicate functions used by the
// reservation pipeline: guest composition checks, the special-request
// content safety filter, and identifier format checks. None of these
// touch the database; the service layer decides when to call them.
package validate

import (
    "regexp"
    "strings"

    "github.com/iliyamo/loft-reservation/internal/model"
)

// loftIDPattern matches the opaque public loft identifier (UUID v4
// style, lower-case).
var loftIDPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// unsafePatterns reject markup and script fragments in free-text
// fields. The filter is deliberately coarse: free text is displayed in
// partner dashboards, so anything that smells like injection is
// refused outright rather than sanitized.
var unsafePatterns = []*regexp.Regexp{
    regexp.MustCompile(`(?i)<\s*script`),
    regexp.MustCompile(`(?i)<\s*/?\s*(iframe|object|embed|form|img|svg)`),
    regexp.MustCompile(`(?i)javascript\s*:`),
    regexp.MustCompile(`(?i)on(load|error|click|mouseover|focus)\s*=`),
    regexp.MustCompile(`(?i)data\s*:\s*text/html`),
}

// LoftID reports whether s is a well-formed loft identifier.
func LoftID(s string) bool {
    return loftIDPattern.MatchString(strings.TrimSpace(s))
}

// GuestInfo checks the structural consistency of a guest breakdown:
// at least one adult, no negative counts, and a total equal to adults
// plus children (infants do not occupy capacity).
func GuestInfo(g model.GuestInfo) bool {
    if g.Adults < 1 || g.Children < 0 || g.Infants < 0 {
        return false
    }
    return g.TotalGuests == g.Adults+g.Children
}

// SafeText reports whether a free-text field is free of markup and
// script patterns. Empty text is always safe.
func SafeText(s string) bool {
    if s == "" {
        return true
    }
    for _, p := range unsafePatterns {
        if p.MatchString(s) {
            return false
        }
    }
    return true
}

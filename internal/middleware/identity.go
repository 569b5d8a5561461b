package middleware

// identity.go holds the helper shared by the rate limiter and response cache
// for attributing a request to a user. JWTAuth stores the token subject under
// "user_id"; unauthenticated requests fall back to "anon" so public traffic
// still buckets sensibly.

import (
	"github.com/labstack/echo/v4"
)

func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if v := c.Get("userID"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}

package handler

import (
    "errors"
    "fmt"
    "strconv"

    "github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's ID from the Echo
// context. The JWT middleware stores the subject claim under
// "user_id"; depending on how the token was decoded it may arrive as
// any numeric type or a string.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// actorTag builds the created_by/updated_by attribution string for a
// request, e.g. "guest:42" or "admin:7". Unauthenticated requests get
// a plain "guest".
func actorTag(c echo.Context) string {
    uid, err := getUserID(c)
    if err != nil {
        return "guest"
    }
    role := "guest"
    if r, ok := c.Get("role").(string); ok && r != "" {
        switch r {
        case "PARTNER":
            role = "partner"
        case "ADMIN":
            role = "admin"
        }
    }
    return fmt.Sprintf("%s:%d", role, uid)
}

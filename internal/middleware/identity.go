package middleware

// identity.go defines helper functions shared across middleware files. Currently
// it provides a userID extraction function that reads the identity stored in
// the Echo context by JWTAuth. When no authenticated user is present, "guest"
// is returned so rate limiting still produces a stable bucket key.

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// userID extracts a user identifier from the Echo context. JWTAuth stores the
// token subject under "user_id"; requests that bypass JWTAuth (public routes)
// have no identity and fall back to "guest".
func userID(c echo.Context) string {
    u := c.Get("user_id")
    if u == nil {
        return "guest"
    }
    switch v := u.(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        return fmt.Sprintf("%.0f", v)
    }
    return "guest"
}

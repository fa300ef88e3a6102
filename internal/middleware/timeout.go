package middleware

// timeout.go bounds how long a single request may spend in handlers and the
// database layer. The wrapped context is cancelled once the duration elapses,
// which makes in-flight database/sql calls return context.DeadlineExceeded so
// the handler can answer with 503 instead of hanging on a slow backend.

import (
    "context"
    "time"

    "github.com/labstack/echo/v4"
)

// RequestTimeout returns middleware that replaces the request context with one
// carrying a deadline of d. Handlers and repositories already thread
// c.Request().Context() into every query, so no further wiring is needed.
func RequestTimeout(d time.Duration) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            ctx, cancel := context.WithTimeout(c.Request().Context(), d)
            defer cancel()
            c.SetRequest(c.Request().WithContext(ctx))
            return next(c)
        }
    }
}

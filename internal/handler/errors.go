package handler // shared error classification for HTTP handlers

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"net/http"

	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
)

// isTransient reports whether err indicates a temporary backend failure: the
// request deadline fired, the MySQL connection is gone, or the network path to
// a dependency timed out. Such failures are retryable by the client, unlike
// validation errors or genuine server bugs.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return false
}

// serverError writes the response for an unexpected backend failure. Transient
// failures map to 503 with a Retry-After hint so well-behaved clients back off
// and retry; everything else is a plain 500 with msg.
func serverError(c echo.Context, err error, msg string) error {
	if isTransient(err) {
		c.Response().Header().Set("Retry-After", "5")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, retry shortly"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}

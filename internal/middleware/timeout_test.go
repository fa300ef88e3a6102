package middleware

import (
    "context"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestRequestTimeoutSetsDeadline(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    before := time.Now()
    h := RequestTimeout(5 * time.Second)(func(c echo.Context) error {
        deadline, ok := c.Request().Context().Deadline()
        require.True(t, ok, "request context should carry a deadline")
        assert.WithinDuration(t, before.Add(5*time.Second), deadline, time.Second)
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestTimeoutExpires(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    h := RequestTimeout(10 * time.Millisecond)(func(c echo.Context) error {
        // Simulate a query blocked on a slow backend.
        <-c.Request().Context().Done()
        return c.Request().Context().Err()
    })
    err := h(c)
    assert.ErrorIs(t, err, context.DeadlineExceeded)
}

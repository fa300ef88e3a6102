// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes allow
// unauthenticated users to browse venues, their tables and menus and to probe
// table availability without requiring authentication. Sensitive fields
// (owner IDs, timestamps, etc.) are filtered from responses.

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/reservation"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
// It produces sanitized responses suitable for public consumption.
type PublicHandler struct {
	VenueRepo       *repository.VenueRepo       // provides access to venue data
	TableRepo       *repository.TableRepo       // provides access to table data
	MenuRepo        *repository.MenuRepo        // provides access to menu data
	ReservationRepo *repository.ReservationRepo // provides the availability probe
}

// PublicVenue represents a venue exposed via the public API. It contains
// only safe fields.
type PublicVenue struct {
	ID      uint64  `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

// PublicTable represents a table exposed via the public API.
type PublicTable struct {
	ID          uint64  `json:"id"`
	TableNumber uint32  `json:"table_number"`
	Capacity    uint32  `json:"capacity"`
	Location    *string `json:"location,omitempty"`
}

// GetPublicVenues returns a list of all venues accessible to unauthenticated users.
// Response JSON contains an "items" array of PublicVenue.
func (h *PublicHandler) GetPublicVenues(c echo.Context) error {
	ctx := c.Request().Context()
	venues, err := h.VenueRepo.ListAll(ctx)
	if err != nil {
		return serverError(c, err, "database error")
	}
	out := make([]PublicVenue, 0, len(venues))
	for _, v := range venues {
		out = append(out, PublicVenue{ID: v.ID, Name: v.Name, Address: v.Address, Phone: v.Phone})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicVenue returns details of a single venue for unauthenticated users.
func (h *PublicHandler) GetPublicVenue(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.VenueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return serverError(c, err, "database error")
	}
	return c.JSON(http.StatusOK, PublicVenue{ID: v.ID, Name: v.Name, Address: v.Address, Phone: v.Phone})
}

// GetPublicTables lists the bookable tables of a venue for unauthenticated
// users. It validates the venue exists, then returns only non-sensitive
// fields of tables open for reservations.
func (h *PublicHandler) GetPublicTables(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	// ensure venue exists
	if _, err := h.VenueRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return serverError(c, err, "database error")
	}
	tables, err := h.TableRepo.ListByVenue(ctx, id, true)
	if err != nil {
		return serverError(c, err, "database error")
	}
	out := make([]PublicTable, 0, len(tables))
	for _, t := range tables {
		out = append(out, PublicTable{ID: t.ID, TableNumber: t.TableNumber, Capacity: t.Capacity, Location: t.Location})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicMenu lists the available menu of a venue for unauthenticated
// users, grouped flat with category labels left intact.
func (h *PublicHandler) GetPublicMenu(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.VenueRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return serverError(c, err, "database error")
	}
	items, err := h.MenuRepo.ListByVenue(ctx, id, true)
	if err != nil {
		return serverError(c, err, "database error")
	}
	out := make([]menuItemResp, 0, len(items))
	for _, m := range items {
		out = append(out, toMenuItemResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// CheckAvailability handles GET /v1/venues/:id/availability. Query
// parameters table_id, date (YYYY-MM-DD) and time (HH:MM) describe the
// requested slot. The answer is advisory: reservation creation
// re-checks under the table lock, so an "available" answer can still
// lose the race to a concurrent booking.
func (h *PublicHandler) CheckAvailability(c echo.Context) error {
	venueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	tableID, err := strconv.ParseUint(c.QueryParam("table_id"), 10, 64)
	if err != nil || tableID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id is required"})
	}
	startsAt, err := reservation.ParseSlot(strings.TrimSpace(c.QueryParam("date")), strings.TrimSpace(c.QueryParam("time")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date/time"})
	}
	ctx := c.Request().Context()
	t, err := h.TableRepo.GetByIDAndVenue(ctx, tableID, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return serverError(c, err, "database error")
	}
	available, err := h.ReservationRepo.IsAvailable(ctx, venueID, tableID, startsAt)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return serverError(c, err, "database error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"table_id":  tableID,
		"capacity":  t.Capacity,
		"starts_at": startsAt,
		"available": available,
	})
}

package handler // handler package contains staff table management handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// tableResp is the JSON shape returned for a table.
type tableResp struct {
	ID          uint64  `json:"id"`
	TableNumber uint32  `json:"table_number"`
	Capacity    uint32  `json:"capacity"`
	Location    *string `json:"location,omitempty"`
	IsAvailable bool    `json:"is_available"`
}

func toTableResp(t *model.Table) tableResp {
	return tableResp{
		ID:          t.ID,
		TableNumber: t.TableNumber,
		Capacity:    t.Capacity,
		Location:    t.Location,
		IsAvailable: t.IsAvailable,
	}
}

// CreateTable handles POST /v1/staff/tables. Table numbers are unique
// per venue; a duplicate returns 409.
func (h *StaffHandler) CreateTable(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	var body struct {
		TableNumber uint32  `json:"table_number"`
		Capacity    uint32  `json:"capacity"`
		Location    *string `json:"location"`
		IsAvailable *bool   `json:"is_available"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TableNumber == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_number is required"})
	}
	if body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	available := true
	if body.IsAvailable != nil {
		available = *body.IsAvailable
	}
	t := &model.Table{
		VenueID:     venueID,
		TableNumber: body.TableNumber,
		Capacity:    body.Capacity,
		Location:    body.Location,
		IsAvailable: available,
	}
	if err := h.TableRepo.Create(c.Request().Context(), t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table number already exists"})
		}
		return serverError(c, err, "failed to create table")
	}
	return c.JSON(http.StatusCreated, toTableResp(t))
}

// ListTables handles GET /v1/staff/tables. The optional available=true
// query filters to tables open for booking.
func (h *StaffHandler) ListTables(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	availableOnly := strings.EqualFold(c.QueryParam("available"), "true")
	tables, err := h.TableRepo.ListByVenue(c.Request().Context(), venueID, availableOnly)
	if err != nil {
		return serverError(c, err, "database error")
	}
	out := make([]tableResp, 0, len(tables))
	for _, t := range tables {
		out = append(out, toTableResp(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetTable handles GET /v1/staff/tables/:id. Tables of other venues
// are reported as not found.
func (h *StaffHandler) GetTable(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	t, err := h.TableRepo.GetByIDAndVenue(c.Request().Context(), id, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return serverError(c, err, "database error")
	}
	return c.JSON(http.StatusOK, toTableResp(t))
}

// UpdateTable handles PATCH /v1/staff/tables/:id. All fields are
// replaced; capacity must stay positive.
func (h *StaffHandler) UpdateTable(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var body struct {
		TableNumber uint32  `json:"table_number"`
		Capacity    uint32  `json:"capacity"`
		Location    *string `json:"location"`
		IsAvailable *bool   `json:"is_available"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TableNumber == 0 || body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_number and capacity must be positive"})
	}
	available := true
	if body.IsAvailable != nil {
		available = *body.IsAvailable
	}
	t := &model.Table{
		ID:          id,
		VenueID:     venueID,
		TableNumber: body.TableNumber,
		Capacity:    body.Capacity,
		Location:    body.Location,
		IsAvailable: available,
	}
	if err := h.TableRepo.Update(c.Request().Context(), t); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table number already exists"})
		}
		return serverError(c, err, "failed to update table")
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// DeleteTable handles DELETE /v1/staff/tables/:id. Deletion is refused
// with 409 while active reservations reference the table.
func (h *StaffHandler) DeleteTable(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	if err := h.TableRepo.DeleteByIDAndVenue(c.Request().Context(), id, venueID); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table has active reservations"})
		}
		return serverError(c, err, "failed to delete table")
	}
	return c.NoContent(http.StatusNoContent)
}

// TableQR handles GET /v1/staff/tables/:id/qr. It renders a PNG QR
// code pointing at the public menu for the venue, suitable for
// printing and placing on the physical table.
func (h *StaffHandler) TableQR(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	t, err := h.TableRepo.GetByIDAndVenue(c.Request().Context(), id, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return serverError(c, err, "database error")
	}
	link := fmt.Sprintf("%s/v1/venues/%d/menu?table=%d", strings.TrimRight(h.PublicBaseURL, "/"), venueID, t.TableNumber)
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to render qr code"})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

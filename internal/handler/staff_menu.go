package handler // handler package contains staff menu management handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// menuItemResp is the JSON shape returned for a menu item.
type menuItemResp struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	PriceCents  uint32  `json:"price_cents"`
	Category    *string `json:"category,omitempty"`
	IsAvailable bool    `json:"is_available"`
}

func toMenuItemResp(m *model.MenuItem) menuItemResp {
	return menuItemResp{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		PriceCents:  m.PriceCents,
		Category:    m.Category,
		IsAvailable: m.IsAvailable,
	}
}

// CreateMenuItem handles POST /v1/staff/menu. Item names are unique
// per venue; a duplicate returns 409.
func (h *StaffHandler) CreateMenuItem(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	var body struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		PriceCents  uint32  `json:"price_cents"`
		Category    *string `json:"category"`
		IsAvailable *bool   `json:"is_available"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.PriceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be positive"})
	}
	available := true
	if body.IsAvailable != nil {
		available = *body.IsAvailable
	}
	m := &model.MenuItem{
		VenueID:     venueID,
		Name:        body.Name,
		Description: body.Description,
		PriceCents:  body.PriceCents,
		Category:    body.Category,
		IsAvailable: available,
	}
	if err := h.MenuRepo.Create(c.Request().Context(), m); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "menu item name already exists"})
		}
		return serverError(c, err, "failed to create menu item")
	}
	return c.JSON(http.StatusCreated, toMenuItemResp(m))
}

// ListMenuItems handles GET /v1/staff/menu. Staff see all items
// including unavailable ones.
func (h *StaffHandler) ListMenuItems(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	items, err := h.MenuRepo.ListByVenue(c.Request().Context(), venueID, false)
	if err != nil {
		return serverError(c, err, "database error")
	}
	out := make([]menuItemResp, 0, len(items))
	for _, m := range items {
		out = append(out, toMenuItemResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// UpdateMenuItem handles PATCH /v1/staff/menu/:id.
func (h *StaffHandler) UpdateMenuItem(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
	}
	var body struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		PriceCents  uint32  `json:"price_cents"`
		Category    *string `json:"category"`
		IsAvailable *bool   `json:"is_available"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || body.PriceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and price_cents are required"})
	}
	available := true
	if body.IsAvailable != nil {
		available = *body.IsAvailable
	}
	m := &model.MenuItem{
		ID:          id,
		VenueID:     venueID,
		Name:        body.Name,
		Description: body.Description,
		PriceCents:  body.PriceCents,
		Category:    body.Category,
		IsAvailable: available,
	}
	if err := h.MenuRepo.Update(c.Request().Context(), m); err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "menu item name already exists"})
		}
		return serverError(c, err, "failed to update menu item")
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// DeleteMenuItem handles DELETE /v1/staff/menu/:id. Items referenced
// by order lines should be marked unavailable instead; a delete that
// violates the foreign key returns 409.
func (h *StaffHandler) DeleteMenuItem(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
	}
	if err := h.MenuRepo.DeleteByIDAndVenue(c.Request().Context(), id, venueID); err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "menu item is referenced by orders"})
		}
		return serverError(c, err, "failed to delete menu item")
	}
	return c.NoContent(http.StatusNoContent)
}

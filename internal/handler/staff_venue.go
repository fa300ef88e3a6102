package handler // handler package contains staff venue management handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/labstack/echo/v4"
)

// CreateVenue handles POST /v1/venues. A staff user without a venue
// creates one and becomes its owner; the venue is bound to the user so
// subsequently issued tokens carry the venue_id claim. A staff user
// already bound to a venue receives 409.
func (h *StaffHandler) CreateVenue(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if _, err := getVenueID(c); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "already bound to a venue"})
	}
	var body struct {
		Name    string  `json:"name"`
		Address *string `json:"address"`
		Phone   *string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx := c.Request().Context()
	v := &model.Venue{OwnerID: userID, Name: body.Name, Address: body.Address, Phone: body.Phone}
	if err := h.VenueRepo.Create(ctx, v); err != nil {
		return serverError(c, err, "failed to create venue")
	}
	// Bind the creator so future tokens carry the venue claim. The venue
	// row already exists; a binding failure leaves an ownerless-looking
	// account, so report it rather than pretending success.
	if err := h.UserRepo.BindVenue(ctx, userID, v.ID); err != nil {
		return serverError(c, err, "failed to bind venue")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         v.ID,
		"name":       v.Name,
		"address":    v.Address,
		"phone":      v.Phone,
		"created_at": v.CreatedAt,
	})
}

// GetMyVenue handles GET /v1/staff/venue and returns the venue bound to
// the authenticated staff user.
func (h *StaffHandler) GetMyVenue(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	v, err := h.VenueRepo.GetByID(c.Request().Context(), venueID)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return serverError(c, err, "database error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":         v.ID,
		"name":       v.Name,
		"address":    v.Address,
		"phone":      v.Phone,
		"created_at": v.CreatedAt,
		"updated_at": v.UpdatedAt,
	})
}

// UpdateMyVenue handles PATCH /v1/staff/venue. Only the owner may
// update venue details; non-owner staff receive 403.
func (h *StaffHandler) UpdateMyVenue(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	var body struct {
		Name    string  `json:"name"`
		Address *string `json:"address"`
		Phone   *string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	err = h.VenueRepo.Update(c.Request().Context(), venueID, userID, body.Name, body.Address, body.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return serverError(c, err, "failed to update venue")
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// DeleteMyVenue handles DELETE /v1/staff/venue. The cascade removes
// tables, menu items, reservations, orders, payments and notifications
// belonging to the venue and unbinds all staff accounts. Only the
// owner may delete.
func (h *StaffHandler) DeleteMyVenue(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	err = h.VenueRepo.DeleteByIDAndOwner(c.Request().Context(), venueID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return serverError(c, err, "failed to delete venue")
	}
	return c.NoContent(http.StatusNoContent)
}

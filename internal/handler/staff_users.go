package handler // handler package contains staff account management handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// AddStaff handles POST /v1/staff/users. An existing staff member adds
// a colleague to their venue: a STAFF account is created already bound
// to the venue, so the new user's first login issues a venue-scoped
// token.
func (h *StaffHandler) AddStaff(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if body.Email == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	uid, err := h.UserRepo.Create(c.Request().Context(), body.Email, body.Password, "STAFF", &venueID, h.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return serverError(c, err, "create user failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":       uid,
		"email":    body.Email,
		"role":     "STAFF",
		"venue_id": venueID,
	})
}

// ListStaff handles GET /v1/staff/users and returns the staff accounts
// bound to the caller's venue.
func (h *StaffHandler) ListStaff(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	users, err := h.UserRepo.ListStaffByVenue(c.Request().Context(), venueID)
	if err != nil {
		return serverError(c, err, "database error")
	}
	type staffPart struct {
		ID       uint64 `json:"id"`
		Email    string `json:"email"`
		IsActive bool   `json:"is_active"`
	}
	out := make([]staffPart, 0, len(users))
	for _, u := range users {
		out = append(out, staffPart{ID: u.ID, Email: u.Email, IsActive: u.IsActive})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// NotificationHandler serves the two notification inboxes: the staff
// inbox scoped by venue and the customer inbox scoped by user.
type NotificationHandler struct {
	Repo *repository.NotificationRepo
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(repo *repository.NotificationRepo) *NotificationHandler {
	if repo == nil {
		panic("nil repository passed to NewNotificationHandler")
	}
	return &NotificationHandler{Repo: repo}
}

// notificationResp is the JSON shape returned for an inbox entry.
type notificationResp struct {
	ID            uint64    `json:"id"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	ReservationID *uint64   `json:"reservation_id,omitempty"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

func toNotificationResp(n *model.Notification) notificationResp {
	return notificationResp{
		ID:            n.ID,
		Type:          n.Type,
		Title:         n.Title,
		Message:       n.Message,
		ReservationID: n.ReservationID,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
	}
}

func notificationList(items []*model.Notification) []notificationResp {
	out := make([]notificationResp, 0, len(items))
	for _, n := range items {
		out = append(out, toNotificationResp(n))
	}
	return out
}

// ListVenueNotifications handles GET /v1/staff/notifications. The
// optional unread=true query filters to unread entries.
func (h *NotificationHandler) ListVenueNotifications(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	unreadOnly := strings.EqualFold(c.QueryParam("unread"), "true")
	items, err := h.Repo.ListForVenue(c.Request().Context(), venueID, unreadOnly)
	if err != nil {
		return serverError(c, err, "database error")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": notificationList(items)})
}

// MarkVenueNotificationRead handles POST /v1/staff/notifications/:id/read.
func (h *NotificationHandler) MarkVenueNotificationRead(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}
	if err := h.Repo.MarkReadForVenue(c.Request().Context(), id, venueID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		return serverError(c, err, "failed to mark read")
	}
	return c.JSON(http.StatusOK, echo.Map{"read": true})
}

// DeleteVenueNotification handles DELETE /v1/staff/notifications/:id.
func (h *NotificationHandler) DeleteVenueNotification(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}
	if err := h.Repo.DeleteForVenue(c.Request().Context(), id, venueID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		return serverError(c, err, "failed to delete notification")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMyNotifications handles GET /v1/my-notifications for customers.
func (h *NotificationHandler) ListMyNotifications(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	unreadOnly := strings.EqualFold(c.QueryParam("unread"), "true")
	items, err := h.Repo.ListForCustomer(c.Request().Context(), userID, unreadOnly)
	if err != nil {
		return serverError(c, err, "database error")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": notificationList(items)})
}

// MarkMyNotificationRead handles POST /v1/my-notifications/:id/read.
func (h *NotificationHandler) MarkMyNotificationRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}
	if err := h.Repo.MarkReadForCustomer(c.Request().Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		return serverError(c, err, "failed to mark read")
	}
	return c.JSON(http.StatusOK, echo.Map{"read": true})
}

// DeleteMyNotification handles DELETE /v1/my-notifications/:id.
func (h *NotificationHandler) DeleteMyNotification(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}
	if err := h.Repo.DeleteForCustomer(c.Request().Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		return serverError(c, err, "failed to delete notification")
	}
	return c.NoContent(http.StatusNoContent)
}

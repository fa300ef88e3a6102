package handler // handler package contains staff order management handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/notify"
	"github.com/iliyamo/restaurant-reservation/internal/order"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// ListVenueOrders handles GET /v1/staff/orders. The optional
// status=STATUS query filters by fulfillment state.
func (h *StaffHandler) ListVenueOrders(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" {
		if _, ok := order.ParseStatus(status); !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
	}
	items, err := h.OrderRepo.ListByVenue(c.Request().Context(), venueID, status)
	if err != nil {
		return serverError(c, err, "database error")
	}
	out := make([]orderResp, 0, len(items))
	for _, o := range items {
		out = append(out, toOrderResp(o, nil))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetVenueOrder handles GET /v1/staff/orders/:id with line items.
// Orders of other venues are reported as not found.
func (h *StaffHandler) GetVenueOrder(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	ctx := c.Request().Context()
	o, err := h.OrderRepo.GetByIDForVenue(ctx, id, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return serverError(c, err, "database error")
	}
	items, err := h.OrderRepo.ListItems(ctx, id)
	if err != nil {
		return serverError(c, err, "failed to load order items")
	}
	return c.JSON(http.StatusOK, toOrderResp(o, items))
}

// UpdateOrderStatus handles PATCH /v1/staff/orders/:id/status. The
// target must be a legal fulfillment transition from the current
// state; anything else returns 409. Status changes notify the
// customer.
func (h *StaffHandler) UpdateOrderStatus(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	target, ok := order.ParseStatus(body.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx := c.Request().Context()
	tx, err := h.OrderRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return serverError(c, err, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	o, err := h.OrderRepo.GetForUpdateByVenueTx(ctx, tx, id, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return serverError(c, err, "database error")
	}
	current, _ := order.ParseStatus(o.Status)
	if !order.CanTransition(current, target) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "illegal status transition",
			"current": o.Status,
		})
	}
	if err := h.OrderRepo.UpdateStatusTx(ctx, tx, id, string(target)); err != nil {
		return serverError(c, err, "failed to update status")
	}
	if err := tx.Commit(); err != nil {
		return serverError(c, err, "failed to commit transaction")
	}
	committed = true

	o.Status = string(target)
	h.Notifier.EmitToCustomer(ctx, o.CustomerID, notify.TypeOrderStatus,
		"Order update", "Your order is now "+strings.ToLower(string(target))+".", o.ReservationID)
	return c.JSON(http.StatusOK, toOrderResp(o, nil))
}

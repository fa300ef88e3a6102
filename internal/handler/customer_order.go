package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/notify"
	"github.com/iliyamo/restaurant-reservation/internal/order"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/reservation"
)

// orderItemResp is the JSON shape of an order line.
type orderItemResp struct {
	MenuItemID     uint64 `json:"menu_item_id"`
	Name           string `json:"name"`
	Quantity       uint32 `json:"quantity"`
	UnitPriceCents uint32 `json:"unit_price_cents"`
}

// orderResp is the JSON shape returned for an order.
type orderResp struct {
	ID               uint64          `json:"id"`
	VenueID          uint64          `json:"venue_id"`
	CustomerID       uint64          `json:"customer_id"`
	ReservationID    *uint64         `json:"reservation_id,omitempty"`
	Status           string          `json:"status"`
	PaymentStatus    string          `json:"payment_status"`
	TotalAmountCents uint32          `json:"total_amount_cents"`
	Notes            *string         `json:"notes,omitempty"`
	Items            []orderItemResp `json:"items,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func toOrderResp(o *model.Order, items []model.OrderItem) orderResp {
	resp := orderResp{
		ID:               o.ID,
		VenueID:          o.VenueID,
		CustomerID:       o.CustomerID,
		ReservationID:    o.ReservationID,
		Status:           o.Status,
		PaymentStatus:    o.PaymentStatus,
		TotalAmountCents: o.TotalAmountCents,
		Notes:            o.Notes,
		CreatedAt:        o.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, orderItemResp{
			MenuItemID:     it.MenuItemID,
			Name:           it.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
	}
	return resp
}

// CreateOrder handles POST /v1/orders.  The body carries the venue, an
// optional reservation and line items referencing menu items by id.
// The whole checkout runs in one transaction: menu prices are read,
// lines are snapshotted with the current name and unit price, and the
// linked reservation's running total is increased.  Orders against
// someone else's reservation or with unknown or unavailable menu items
// are rejected.
func (h *CustomerHandler) CreateOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		VenueID       uint64  `json:"venue_id"`
		ReservationID *uint64 `json:"reservation_id"`
		Notes         *string `json:"notes"`
		Items         []struct {
			MenuItemID uint64 `json:"menu_item_id"`
			Quantity   uint32 `json:"quantity"`
		} `json:"items"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.VenueID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue_id is required"})
	}
	if len(body.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items is required"})
	}
	// merge duplicate lines so each menu item appears once
	quantities := make(map[uint64]uint32, len(body.Items))
	ids := make([]uint64, 0, len(body.Items))
	for _, it := range body.Items {
		if it.MenuItemID == 0 || it.Quantity == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "items need a menu_item_id and positive quantity"})
		}
		if _, seen := quantities[it.MenuItemID]; !seen {
			ids = append(ids, it.MenuItemID)
		}
		quantities[it.MenuItemID] += it.Quantity
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

	// when linked to a reservation, lock it and verify ownership,
	// venue and that it still accepts orders
	if body.ReservationID != nil {
		r, err := h.ReservationRepo.GetForUpdateByCustomerTx(ctx, tx, *body.ReservationID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrReservationNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
			}
			return serverError(c, err, "database error")
		}
		if r.VenueID != body.VenueID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation belongs to a different venue"})
		}
		if s, ok := reservation.ParseStatus(r.Status); !ok || s.IsTerminal() {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is no longer active"})
		}
	}

	menu, err := h.MenuRepo.GetManyForOrderTx(ctx, tx, body.VenueID, ids)
	if err != nil {
		return serverError(c, err, "failed to load menu items")
	}
	if len(menu) != len(ids) {
		missing := make([]uint64, 0, len(ids)-len(menu))
		for _, id := range ids {
			if _, ok := menu[id]; !ok {
				missing = append(missing, id)
			}
		}
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":       "some menu items are unknown or unavailable",
			"unavailable": missing,
		})
	}

	total := uint32(0)
	items := make([]model.OrderItem, 0, len(ids))
	for _, id := range ids {
		m := menu[id]
		qty := quantities[id]
		total += m.PriceCents * qty
		items = append(items, model.OrderItem{
			MenuItemID:     id,
			Name:           m.Name,
			Quantity:       qty,
			UnitPriceCents: m.PriceCents,
		})
	}

	o := &model.Order{
		VenueID:          body.VenueID,
		CustomerID:       userID,
		ReservationID:    body.ReservationID,
		Status:           string(order.StatusPending),
		PaymentStatus:    string(order.PaymentPending),
		TotalAmountCents: total,
		Notes:            body.Notes,
	}
	if err := h.OrderRepo.CreateTx(ctx, tx, o); err != nil {
		return serverError(c, err, "failed to create order")
	}
	for i := range items {
		items[i].OrderID = o.ID
	}
	if err := h.OrderRepo.CreateItemsBulkTx(ctx, tx, items); err != nil {
		return serverError(c, err, "failed to create order items")
	}
	if body.ReservationID != nil {
		if err := h.ReservationRepo.AddToTotalTx(ctx, tx, *body.ReservationID, total); err != nil {
			return serverError(c, err, "failed to update reservation total")
		}
	}
	if err := tx.Commit(); err != nil {
		return serverError(c, err, "failed to commit transaction")
	}
	committed = true

	h.Notifier.EmitToVenue(ctx, o.VenueID, notify.TypeNewOrder,
		"New order", "A new order has been placed.", o.ReservationID)

	return c.JSON(http.StatusCreated, toOrderResp(o, items))
}

// ListOrders handles GET /v1/my-orders and returns the current user's
// orders, newest first.
func (h *CustomerHandler) ListOrders(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.OrderRepo.ListByCustomer(c.Request().Context(), userID)
	if err != nil {
		return serverError(c, err, "failed to load orders")
	}
	out := make([]orderResp, 0, len(items))
	for _, o := range items {
		out = append(out, toOrderResp(o, nil))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetOrder handles GET /v1/orders/:id and returns one order with its
// line items.  Orders of other customers are reported as not found.
func (h *CustomerHandler) GetOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	ctx := c.Request().Context()
	o, err := h.OrderRepo.GetByIDForCustomer(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return serverError(c, err, "failed to fetch order")
	}
	items, err := h.OrderRepo.ListItems(ctx, id)
	if err != nil {
		return serverError(c, err, "failed to load order items")
	}
	return c.JSON(http.StatusOK, toOrderResp(o, items))
}

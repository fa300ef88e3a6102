package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/notify"
	"github.com/iliyamo/restaurant-reservation/internal/order"
	"github.com/iliyamo/restaurant-reservation/internal/payment"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// PaymentHandler bundles the dependencies of the payment endpoints:
// creating gateway payments, receiving gateway webhooks and recording
// manual payments at the venue.
type PaymentHandler struct {
	PaymentRepo *repository.PaymentRepo
	OrderRepo   *repository.OrderRepo
	Gateway     *payment.GatewayClient
	Notifier    *notify.Notifier
	WebhookKey  string // shared secret the gateway presents on callbacks
}

// NewPaymentHandler constructs a PaymentHandler. All dependencies must
// be non-nil.
func NewPaymentHandler(paymentRepo *repository.PaymentRepo, orderRepo *repository.OrderRepo, gateway *payment.GatewayClient, notifier *notify.Notifier, webhookKey string) *PaymentHandler {
	if paymentRepo == nil || orderRepo == nil || gateway == nil || notifier == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{
		PaymentRepo: paymentRepo,
		OrderRepo:   orderRepo,
		Gateway:     gateway,
		Notifier:    notifier,
		WebhookKey:  webhookKey,
	}
}

// paymentResp is the JSON shape returned for a payment.
type paymentResp struct {
	ID          uint64    `json:"id"`
	OrderID     uint64    `json:"order_id"`
	Method      string    `json:"method"`
	GatewayRef  *string   `json:"gateway_ref,omitempty"`
	AmountCents uint32    `json:"amount_cents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toPaymentResp(p *model.Payment) paymentResp {
	return paymentResp{
		ID:          p.ID,
		OrderID:     p.OrderID,
		Method:      p.Method,
		GatewayRef:  p.GatewayRef,
		AmountCents: p.AmountCents,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
}

// CreateGatewayPayment handles POST /v1/orders/:id/payments. The
// customer opens a gateway payment for the full outstanding amount of
// their order. A local PENDING payment row is written first so the
// webhook always finds its reference; the gateway redirect URL is
// returned to the client. Gateway downtime maps to 503 with a
// Retry-After hint.
func (h *PaymentHandler) CreateGatewayPayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	ctx := c.Request().Context()
	o, err := h.OrderRepo.GetByIDForCustomer(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return serverError(c, err, "database error")
	}
	if current, ok := order.ParsePaymentStatus(o.PaymentStatus); ok && current == order.PaymentPaid {
		return c.JSON(http.StatusConflict, echo.Map{"error": "order is already paid"})
	}

	ref := payment.NewReference()
	p := &model.Payment{
		OrderID:     o.ID,
		VenueID:     o.VenueID,
		Method:      "gateway",
		GatewayRef:  &ref,
		AmountCents: o.TotalAmountCents,
		Status:      string(order.PaymentPending),
	}
	if err := h.PaymentRepo.Create(ctx, p); err != nil {
		return serverError(c, err, "failed to record payment")
	}

	resp, err := h.Gateway.CreatePayment(ctx, ref, o.ID, o.TotalAmountCents)
	if err != nil {
		if errors.Is(err, payment.ErrGatewayUnavailable) {
			c.Response().Header().Set("Retry-After", "30")
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payment gateway unavailable"})
		}
		if errors.Is(err, payment.ErrGatewayRejected) {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway rejected the request"})
		}
		return serverError(c, err, "failed to create gateway payment")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"payment":      toPaymentResp(p),
		"redirect_url": resp.RedirectURL,
	})
}

// Webhook handles POST /v1/payments/webhook, the asynchronous callback
// from the gateway. Processing is idempotent: the payment row is
// locked by reference and the status written only when the current one
// is not terminal, so replayed callbacks change nothing and trigger no
// duplicate side effects. Unknown references return 404 and unknown
// statuses 400, both of which tell the gateway not to retry.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	if h.WebhookKey != "" {
		key := c.Request().Header.Get("X-Webhook-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(h.WebhookKey)) != 1 {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid webhook key"})
		}
	}
	var payload payment.WebhookPayload
	if err := c.Bind(&payload); err != nil || strings.TrimSpace(payload.Reference) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	status, ok := payment.MapGatewayStatus(payload.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown payment status"})
	}

	ctx := c.Request().Context()
	tx, err := h.PaymentRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return serverError(c, err, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	p, err := h.PaymentRepo.GetByRefTx(ctx, tx, payload.Reference)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown payment reference"})
		}
		return serverError(c, err, "database error")
	}
	applied, err := h.PaymentRepo.ApplyStatusTx(ctx, tx, p.ID, status)
	if err != nil {
		return serverError(c, err, "failed to apply status")
	}
	if applied {
		current, _ := order.ParsePaymentStatus(p.Status)
		if next, ok := order.ApplyPayment(current, status); ok {
			if err := h.OrderRepo.UpdatePaymentStatusTx(ctx, tx, p.OrderID, string(next)); err != nil {
				return serverError(c, err, "failed to update order")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return serverError(c, err, "failed to commit transaction")
	}
	committed = true

	if applied {
		o, err := h.OrderRepo.GetByIDForVenue(ctx, p.OrderID, p.VenueID)
		if err == nil {
			switch status {
			case order.PaymentPaid:
				h.Notifier.EmitToVenue(ctx, p.VenueID, notify.TypePaymentReceived,
					"Payment received", "An order has been paid via the gateway.", o.ReservationID)
				h.Notifier.EmitToCustomer(ctx, o.CustomerID, notify.TypePaymentReceived,
					"Payment confirmed", "Your payment was received.", o.ReservationID)
			case order.PaymentFailed, order.PaymentExpired:
				h.Notifier.EmitToCustomer(ctx, o.CustomerID, notify.TypePaymentFailed,
					"Payment failed", "Your payment did not complete.", o.ReservationID)
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"applied": applied})
}

// RecordManualPayment handles POST /v1/staff/orders/:id/payments.
// Staff record cash or card payments taken at the venue; the payment
// row is written as PAID and the order's payment status advances when
// the transition is legal.
func (h *PaymentHandler) RecordManualPayment(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var body struct {
		Method      string  `json:"method"`
		AmountCents *uint32 `json:"amount_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	method := strings.ToLower(strings.TrimSpace(body.Method))
	if method != "cash" && method != "card" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "method must be cash or card"})
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
	o, err := h.OrderRepo.GetForUpdateByVenueTx(ctx, tx, orderID, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return serverError(c, err, "database error")
	}
	current, _ := order.ParsePaymentStatus(o.PaymentStatus)
	next, ok := order.ApplyPayment(current, order.PaymentPaid)
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "order payment status cannot change",
			"current": o.PaymentStatus,
		})
	}
	amount := o.TotalAmountCents
	if body.AmountCents != nil && *body.AmountCents > 0 {
		amount = *body.AmountCents
	}
	if err := h.OrderRepo.UpdatePaymentStatusTx(ctx, tx, o.ID, string(next)); err != nil {
		return serverError(c, err, "failed to update order")
	}
	p := &model.Payment{
		OrderID:     o.ID,
		VenueID:     venueID,
		Method:      method,
		AmountCents: amount,
		Status:      string(order.PaymentPaid),
	}
	if err := h.PaymentRepo.CreateTx(ctx, tx, p); err != nil {
		return serverError(c, err, "failed to record payment")
	}
	if err := tx.Commit(); err != nil {
		return serverError(c, err, "failed to commit transaction")
	}
	committed = true

	h.Notifier.EmitToCustomer(ctx, o.CustomerID, notify.TypePaymentReceived,
		"Payment recorded", "Your payment was recorded at the venue.", o.ReservationID)
	return c.JSON(http.StatusCreated, toPaymentResp(p))
}

// ListOrderPayments handles GET /v1/staff/orders/:id/payments and
// returns every payment attempt recorded against an order.
func (h *PaymentHandler) ListOrderPayments(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	ctx := c.Request().Context()
	if _, err := h.OrderRepo.GetByIDForVenue(ctx, orderID, venueID); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return serverError(c, err, "database error")
	}
	payments, err := h.PaymentRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return serverError(c, err, "failed to load payments")
	}
	out := make([]paymentResp, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

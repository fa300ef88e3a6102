package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/notify"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/reservation"
	queuepublisher "github.com/iliyamo/restaurant-reservation/internal/service"
)

// CustomerHandler groups repositories required to create reservations,
// request cancellations and browse one's own bookings.  All methods
// assume that JWT authentication and role validation has already been
// performed by middleware.  Methods may return 401 Unauthorized if the
// user ID cannot be extracted from the context.  Critical DB
// operations run inside a transaction to guarantee atomicity.
type CustomerHandler struct {
	VenueRepo       *repository.VenueRepo       // access to venues for existence checks and event payloads
	TableRepo       *repository.TableRepo       // access to tables for capacity lookups
	MenuRepo        *repository.MenuRepo        // access to menu items for order checkout
	ReservationRepo *repository.ReservationRepo // access to reservations
	OrderRepo       *repository.OrderRepo       // access to orders and order_items
	PaymentRepo     *repository.PaymentRepo     // access to payments
	Notifier        *notify.Notifier            // inbox notification side effects
}

// NewCustomerHandler constructs a new CustomerHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewCustomerHandler(venueRepo *repository.VenueRepo, tableRepo *repository.TableRepo, menuRepo *repository.MenuRepo, reservationRepo *repository.ReservationRepo, orderRepo *repository.OrderRepo, paymentRepo *repository.PaymentRepo, notifier *notify.Notifier) *CustomerHandler {
	if venueRepo == nil || tableRepo == nil || menuRepo == nil || reservationRepo == nil || orderRepo == nil || paymentRepo == nil || notifier == nil {
		panic("nil dependency passed to NewCustomerHandler")
	}
	return &CustomerHandler{
		VenueRepo:       venueRepo,
		TableRepo:       tableRepo,
		MenuRepo:        menuRepo,
		ReservationRepo: reservationRepo,
		OrderRepo:       orderRepo,
		PaymentRepo:     paymentRepo,
		Notifier:        notifier,
	}
}

// CreateReservation handles POST /v1/reservations.  The body carries
// the venue, optional table, date, time and party size.  Table
// admission runs inside a single transaction that locks the table row,
// so two concurrent requests for an overlapping slot cannot both
// succeed.  A reservation without a table is accepted without any
// availability check and seated by staff on arrival.
func (h *CustomerHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		VenueID         uint64  `json:"venue_id"`
		TableID         *uint64 `json:"table_id"`
		Date            string  `json:"date"`
		Time            string  `json:"time"`
		PartySize       uint32  `json:"party_size"`
		SpecialRequests *string `json:"special_requests"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.VenueID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue_id is required"})
	}
	if body.PartySize == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be positive"})
	}
	startsAt, err := reservation.ParseSlot(strings.TrimSpace(body.Date), strings.TrimSpace(body.Time))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date/time"})
	}
	ctx := c.Request().Context()
	// ensure venue exists
	if _, err := h.VenueRepo.GetByID(ctx, body.VenueID); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return serverError(c, err, "database error")
	}

	res := &model.Reservation{
		VenueID:         body.VenueID,
		CustomerID:      userID,
		TableID:         body.TableID,
		StartsAt:        startsAt,
		PartySize:       body.PartySize,
		Status:          string(reservation.StatusPending),
		SpecialRequests: body.SpecialRequests,
	}
	if err := h.ReservationRepo.CreateWithAdmission(ctx, res); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		if errors.Is(err, repository.ErrTableUnavailable) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table not available for the requested time"})
		}
		return serverError(c, err, "failed to create reservation")
	}

	h.Notifier.EmitToVenue(ctx, res.VenueID, notify.TypeNewReservation,
		"New reservation", "A new reservation request has arrived.", &res.ID)
	h.publishReservationEvent(ctx, res, "created")

	return c.JSON(http.StatusCreated, toReservationResp(res))
}

// publishReservationEvent mirrors the staff-side helper for events
// originating from customer actions.
func (h *CustomerHandler) publishReservationEvent(ctx context.Context, res *model.Reservation, action string) {
	venueName := ""
	if v, err := h.VenueRepo.GetByID(ctx, res.VenueID); err == nil {
		venueName = v.Name
	}
	_ = queuepublisher.PublishReservationEvent(ctx, queue.ReservationEvent{
		ReservationID: res.ID,
		VenueID:       res.VenueID,
		VenueName:     venueName,
		CustomerID:    res.CustomerID,
		TableID:       res.TableID,
		StartsAt:      res.StartsAt.UTC().Format(time.RFC3339),
		PartySize:     res.PartySize,
		Action:        action,
		Status:        res.Status,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

// ListReservations handles GET /v1/my-reservations.  It returns all
// reservations created by the current user, newest first.  When no
// reservations exist, it returns an empty array.
func (h *CustomerHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.ReservationRepo.ListByCustomer(c.Request().Context(), userID)
	if err != nil {
		return serverError(c, err, "failed to load reservations")
	}
	out := make([]reservationResp, 0, len(items))
	for _, r := range items {
		out = append(out, toReservationResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetReservation handles GET /v1/reservations/:id.  It returns the
// details of a single reservation for the authenticated user.  When
// the reservation does not exist or belongs to a different user, it
// responds with 404 (ownership enforced in the repository filter).
func (h *CustomerHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	r, err := h.ReservationRepo.GetByIDForCustomer(c.Request().Context(), resID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return serverError(c, err, "failed to fetch reservation")
	}
	return c.JSON(http.StatusOK, toReservationResp(r))
}

// RequestCancellation handles POST /v1/reservations/:id/cancellation.
// Customers never cancel directly; they move the reservation to
// CANCELLATION_REQUESTED and staff approve or reject.  The optional
// reason is truncated to the storage limit rather than rejected.
// Terminal reservations return 409.
func (h *CustomerHandler) RequestCancellation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return serverError(c, err, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	r, err := h.ReservationRepo.GetForUpdateByCustomerTx(ctx, tx, resID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return serverError(c, err, "database error")
	}
	current, _ := reservation.ParseStatus(r.Status)
	target, reason, err := reservation.RequestCancellation(current, body.Reason)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "reservation cannot be cancelled",
			"current": r.Status,
		})
	}
	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, resID, string(target), reasonPtr); err != nil {
		return serverError(c, err, "failed to update status")
	}
	if err := tx.Commit(); err != nil {
		return serverError(c, err, "failed to commit transaction")
	}
	committed = true

	r.Status = string(target)
	r.CancellationReason = reasonPtr
	h.Notifier.EmitToVenue(ctx, r.VenueID, notify.TypeCancellationRequested,
		"Cancellation requested", "A customer has requested to cancel a reservation.", &r.ID)
	h.publishReservationEvent(ctx, r, "cancellation_requested")

	return c.JSON(http.StatusOK, toReservationResp(r))
}

// UpdateSpecialRequests handles PATCH /v1/reservations/:id/requests.
// Special requests stay editable while the reservation is active.
func (h *CustomerHandler) UpdateSpecialRequests(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		SpecialRequests *string `json:"special_requests"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	err = h.ReservationRepo.UpdateSpecialRequests(c.Request().Context(), resID, userID, body.SpecialRequests)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is no longer active"})
		}
		return serverError(c, err, "failed to update special requests")
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

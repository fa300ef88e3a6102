package handler // handler package contains staff reservation management handlers

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

// reservationResp is the JSON shape returned for a reservation.
type reservationResp struct {
	ID                 uint64    `json:"id"`
	VenueID            uint64    `json:"venue_id"`
	CustomerID         uint64    `json:"customer_id"`
	TableID            *uint64   `json:"table_id,omitempty"`
	StartsAt           time.Time `json:"starts_at"`
	PartySize          uint32    `json:"party_size"`
	Status             string    `json:"status"`
	SpecialRequests    *string   `json:"special_requests,omitempty"`
	CancellationReason *string   `json:"cancellation_reason,omitempty"`
	TotalAmountCents   uint32    `json:"total_amount_cents"`
	CreatedAt          time.Time `json:"created_at"`
}

func toReservationResp(r *model.Reservation) reservationResp {
	return reservationResp{
		ID:                 r.ID,
		VenueID:            r.VenueID,
		CustomerID:         r.CustomerID,
		TableID:            r.TableID,
		StartsAt:           r.StartsAt,
		PartySize:          r.PartySize,
		Status:             r.Status,
		SpecialRequests:    r.SpecialRequests,
		CancellationReason: r.CancellationReason,
		TotalAmountCents:   r.TotalAmountCents,
		CreatedAt:          r.CreatedAt,
	}
}

// reservationActions maps a reservation status to the action tag used
// in published broker events.
var reservationActions = map[reservation.Status]string{
	reservation.StatusPending:               "created",
	reservation.StatusConfirmed:             "confirmed",
	reservation.StatusCancellationRequested: "cancellation_requested",
	reservation.StatusCancelled:             "cancelled",
	reservation.StatusNoShow:                "no_show",
	reservation.StatusCompleted:             "completed",
}

// publishReservationEvent pushes a state change to the broker. Like
// notifications this is fire-and-forget: the reservation change has
// already committed and a broker outage must not fail the request.
func (h *StaffHandler) publishReservationEvent(ctx context.Context, res *model.Reservation, action string) {
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

// ListVenueReservations handles GET /v1/staff/reservations. Optional
// query parameters date=YYYY-MM-DD and status=STATUS filter the list.
func (h *StaffHandler) ListVenueReservations(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if date != "" {
		if _, err := time.Parse(reservation.SlotDateLayout, date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
		}
	}
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" {
		if _, ok := reservation.ParseStatus(status); !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
	}
	items, err := h.ReservationRepo.ListByVenue(c.Request().Context(), venueID, date, status)
	if err != nil {
		return serverError(c, err, "database error")
	}
	out := make([]reservationResp, 0, len(items))
	for _, r := range items {
		out = append(out, toReservationResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetVenueReservation handles GET /v1/staff/reservations/:id.
// Reservations of other venues are reported as not found.
func (h *StaffHandler) GetVenueReservation(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	r, err := h.ReservationRepo.GetByIDForVenue(c.Request().Context(), id, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return serverError(c, err, "database error")
	}
	return c.JSON(http.StatusOK, toReservationResp(r))
}

// UpdateReservationStatus handles PATCH /v1/staff/reservations/:id/status.
// The target status must be a legal transition from the current one;
// anything else returns 409. Confirmations notify the customer.
func (h *StaffHandler) UpdateReservationStatus(c echo.Context) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	target, ok := reservation.ParseStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
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
	r, err := h.ReservationRepo.GetForUpdateByVenueTx(ctx, tx, id, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return serverError(c, err, "database error")
	}
	current, _ := reservation.ParseStatus(r.Status)
	if !reservation.CanTransition(current, target) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "illegal status transition",
			"current": r.Status,
		})
	}
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, id, string(target), nil); err != nil {
		return serverError(c, err, "failed to update status")
	}
	if err := tx.Commit(); err != nil {
		return serverError(c, err, "failed to commit transaction")
	}
	committed = true

	r.Status = string(target)
	if target == reservation.StatusConfirmed {
		h.Notifier.EmitToCustomer(ctx, r.CustomerID, notify.TypeReservationConfirmed,
			"Reservation confirmed", "Your reservation has been confirmed.", &r.ID)
	}
	if action, ok := reservationActions[target]; ok {
		h.publishReservationEvent(ctx, r, action)
	}
	return c.JSON(http.StatusOK, toReservationResp(r))
}

// ApproveCancellation handles POST /v1/staff/reservations/:id/cancellation/approve.
// The reservation must be in CANCELLATION_REQUESTED; approval moves it
// to CANCELLED, clears the stored reason and notifies the customer.
func (h *StaffHandler) ApproveCancellation(c echo.Context) error {
	return h.resolveCancellation(c, true)
}

// RejectCancellation handles POST /v1/staff/reservations/:id/cancellation/reject.
// Rejection returns the reservation to CONFIRMED and clears the
// stored reason.
func (h *StaffHandler) RejectCancellation(c echo.Context) error {
	return h.resolveCancellation(c, false)
}

func (h *StaffHandler) resolveCancellation(c echo.Context, approve bool) error {
	venueID, err := getVenueID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no venue bound to this account"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
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
	r, err := h.ReservationRepo.GetForUpdateByVenueTx(ctx, tx, id, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return serverError(c, err, "database error")
	}
	current, _ := reservation.ParseStatus(r.Status)

	var target reservation.Status
	if approve {
		target, err = reservation.ApproveCancellation(current)
	} else {
		target, err = reservation.RejectCancellation(current)
	}
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "no pending cancellation request",
			"current": r.Status,
		})
	}
	// Both resolutions clear the pending reason.
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, id, string(target), nil); err != nil {
		return serverError(c, err, "failed to update status")
	}
	if err := tx.Commit(); err != nil {
		return serverError(c, err, "failed to commit transaction")
	}
	committed = true

	r.Status = string(target)
	r.CancellationReason = nil
	if approve {
		h.Notifier.EmitToCustomer(ctx, r.CustomerID, notify.TypeCancellationApproved,
			"Cancellation approved", "Your reservation has been cancelled.", &r.ID)
		h.publishReservationEvent(ctx, r, "cancelled")
	} else {
		h.Notifier.EmitToCustomer(ctx, r.CustomerID, notify.TypeCancellationRejected,
			"Cancellation rejected", "Your reservation remains confirmed.", &r.ID)
		h.publishReservationEvent(ctx, r, "confirmed")
	}
	return c.JSON(http.StatusOK, toReservationResp(r))
}

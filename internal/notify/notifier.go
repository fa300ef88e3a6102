// Package notify records inbox notifications as side effects of
// reservation, order and payment state changes. Emission is strictly
// fire-and-forget: a failed insert is logged and swallowed so it can
// never fail or roll back the state transition that triggered it.
package notify

import (
	"context"
	"log"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// Notification type tags written to the inbox rows.
const (
	TypeNewReservation        = "new_reservation"
	TypeReservationConfirmed  = "reservation_confirmed"
	TypeCancellationRequested = "cancellation_requested"
	TypeCancellationApproved  = "cancellation_approved"
	TypeCancellationRejected  = "cancellation_rejected"
	TypeNewOrder              = "new_order"
	TypeOrderStatus           = "order_status"
	TypePaymentReceived       = "payment_received"
	TypePaymentFailed         = "payment_failed"
)

// Store is the minimal persistence surface the notifier needs.
// *repository.NotificationRepo satisfies it.
type Store interface {
	Insert(ctx context.Context, n *model.Notification) error
}

// Notifier writes inbox rows for venues and customers.
type Notifier struct {
	store Store
}

// New constructs a Notifier over the given store.
func New(store Store) *Notifier {
	if store == nil {
		panic("nil store passed to notify.New")
	}
	return &Notifier{store: store}
}

// EmitToVenue records a staff inbox entry. Failures are logged and
// swallowed.
func (n *Notifier) EmitToVenue(ctx context.Context, venueID uint64, typ, title, message string, reservationID *uint64) {
	row := &model.Notification{
		VenueID:       &venueID,
		Type:          typ,
		Title:         title,
		Message:       message,
		ReservationID: reservationID,
	}
	if err := n.store.Insert(ctx, row); err != nil {
		log.Printf("notify: venue %d %s: insert failed: %v", venueID, typ, err)
	}
}

// EmitToCustomer records a customer inbox entry. Failures are logged
// and swallowed.
func (n *Notifier) EmitToCustomer(ctx context.Context, customerID uint64, typ, title, message string, reservationID *uint64) {
	row := &model.Notification{
		CustomerID:    &customerID,
		Type:          typ,
		Title:         title,
		Message:       message,
		ReservationID: reservationID,
	}
	if err := n.store.Insert(ctx, row); err != nil {
		log.Printf("notify: customer %d %s: insert failed: %v", customerID, typ, err)
	}
}

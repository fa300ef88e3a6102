// Package order models the two independent status axes of an order:
// kitchen fulfillment and payment.  Both are typed string enums with
// explicit transition rules so illegal edges are rejected in one place.
package order

import (
	"errors"
	"strings"
)

// Status is the kitchen fulfillment state of an order.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// PaymentStatus is the payment state of an order or payment row.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentExpired  PaymentStatus = "EXPIRED"
)

// ErrInvalidTransition is returned when a requested fulfillment status
// change is not an edge of the permitted graph.  Handlers should
// translate this into an HTTP 409 response.
var ErrInvalidTransition = errors.New("invalid order status transition")

var allowedStatuses = map[string]Status{
	string(StatusPending):   StatusPending,
	string(StatusConfirmed): StatusConfirmed,
	string(StatusPreparing): StatusPreparing,
	string(StatusReady):     StatusReady,
	string(StatusCompleted): StatusCompleted,
	string(StatusCancelled): StatusCancelled,
}

// Fulfillment advances strictly forward; cancellation is allowed from
// every state before completion.
var fulfillmentTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusCancelled},
}

// ParseStatus returns the canonical fulfillment Status for the given
// input and whether the input names a known status.
func ParseStatus(raw string) (Status, bool) {
	s, ok := allowedStatuses[strings.ToUpper(strings.TrimSpace(raw))]
	return s, ok
}

// CanTransition reports whether from→to is a permitted fulfillment
// edge.
func CanTransition(from, to Status) bool {
	for _, next := range fulfillmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParsePaymentStatus returns the canonical PaymentStatus for the given
// input and whether the input names a known status.
func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	switch PaymentStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case PaymentPending:
		return PaymentPending, true
	case PaymentPaid:
		return PaymentPaid, true
	case PaymentRefunded:
		return PaymentRefunded, true
	case PaymentFailed:
		return PaymentFailed, true
	case PaymentExpired:
		return PaymentExpired, true
	}
	return "", false
}

// IsTerminal reports whether no further payment transition is
// expected.  A terminal payment status must never be overwritten by a
// replayed gateway callback.
func (p PaymentStatus) IsTerminal() bool {
	switch p {
	case PaymentPaid, PaymentRefunded, PaymentFailed, PaymentExpired:
		return true
	}
	return false
}

// TerminalPaymentStatuses lists every terminal payment status.  The
// payment repository interpolates these into its idempotent update so
// the database refuses to re-apply a replayed callback.
func TerminalPaymentStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentPaid, PaymentRefunded, PaymentFailed, PaymentExpired}
}

// ApplyPayment decides whether an incoming payment status may replace
// the current one.  It returns the status to store and whether the
// caller should apply it together with its side effects.  Once the
// current status is terminal nothing further is applied, which makes
// replayed gateway callbacks no-ops.
func ApplyPayment(current, incoming PaymentStatus) (PaymentStatus, bool) {
	if current.IsTerminal() {
		return current, false
	}
	if incoming == current {
		return current, false
	}
	return incoming, true
}

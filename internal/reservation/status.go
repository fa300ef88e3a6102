// Package reservation holds the lifecycle and admission rules for
// table reservations.  Handlers and repositories depend on this
// package for every status decision so that the permitted transition
// graph lives in exactly one place instead of per-endpoint
// conditionals.
package reservation

import (
	"errors"
	"strings"
)

// Status represents the lifecycle of a reservation as stored in the
// reservations.status column and exposed by the REST API.
type Status string

const (
	StatusUnknown               Status = ""
	StatusPending               Status = "PENDING"
	StatusConfirmed             Status = "CONFIRMED"
	StatusCancellationRequested Status = "CANCELLATION_REQUESTED"
	StatusCompleted             Status = "COMPLETED"
	StatusCancelled             Status = "CANCELLED"
	StatusNoShow                Status = "NO_SHOW"
)

// MaxCancellationReasonLen bounds the stored cancellation reason.
// Longer reasons are truncated, not rejected.
const MaxCancellationReasonLen = 500

// ErrInvalidTransition is returned when a requested status change is
// not an edge of the permitted transition graph.  Handlers should
// translate this into an HTTP 409 response.
var ErrInvalidTransition = errors.New("invalid status transition")

var allowedStatuses = map[string]Status{
	string(StatusPending):               StatusPending,
	string(StatusConfirmed):             StatusConfirmed,
	string(StatusCancellationRequested): StatusCancellationRequested,
	string(StatusCompleted):             StatusCompleted,
	string(StatusCancelled):             StatusCancelled,
	string(StatusNoShow):                StatusNoShow,
}

// transitions is the explicit edge set of the lifecycle.  Terminal
// states (COMPLETED, CANCELLED, NO_SHOW) have no outgoing edges.
var transitions = map[Status][]Status{
	StatusPending:               {StatusConfirmed, StatusCancellationRequested, StatusCancelled, StatusNoShow},
	StatusConfirmed:             {StatusCompleted, StatusCancellationRequested, StatusCancelled, StatusNoShow},
	StatusCancellationRequested: {StatusCancelled, StatusConfirmed},
}

// ParseStatus returns the canonical Status for the given input and
// whether the input names a known status.  Matching is case
// insensitive and ignores surrounding whitespace.
func ParseStatus(raw string) (Status, bool) {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	s, ok := allowedStatuses[trimmed]
	return s, ok
}

// IsTerminal reports whether no further transition is expected from s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// IsActive reports whether a reservation in this status still occupies
// its table for the purpose of availability checking.  Cancelled and
// no-show reservations free their slot.
func (s Status) IsActive() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// CanTransition reports whether from→to is an edge of the lifecycle
// graph.  A transition to the current status is never allowed.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RequestCancellation applies the customer-initiated cancellation
// request.  It is only permitted from PENDING or CONFIRMED.  The
// supplied reason is truncated to MaxCancellationReasonLen runes and
// returned alongside the new status.
func RequestCancellation(current Status, reason string) (Status, string, error) {
	if current != StatusPending && current != StatusConfirmed {
		return current, "", ErrInvalidTransition
	}
	return StatusCancellationRequested, TruncateReason(reason), nil
}

// ApproveCancellation applies the staff approval of a pending
// cancellation request.  It is only permitted from
// CANCELLATION_REQUESTED; the stored reason is cleared once the
// request is resolved.
func ApproveCancellation(current Status) (Status, error) {
	if current != StatusCancellationRequested {
		return current, ErrInvalidTransition
	}
	return StatusCancelled, nil
}

// RejectCancellation applies the staff rejection of a pending
// cancellation request.  The reservation returns to CONFIRMED and the
// stored reason is cleared.
func RejectCancellation(current Status) (Status, error) {
	if current != StatusCancellationRequested {
		return current, ErrInvalidTransition
	}
	return StatusConfirmed, nil
}

// TruncateReason bounds a cancellation reason to
// MaxCancellationReasonLen runes.
func TruncateReason(reason string) string {
	reason = strings.TrimSpace(reason)
	runes := []rune(reason)
	if len(runes) > MaxCancellationReasonLen {
		return string(runes[:MaxCancellationReasonLen])
	}
	return reason
}

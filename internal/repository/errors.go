// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed due to existing dependent records (e.g. deleting
// a table with active reservations) or an occupied time slot.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot be performed because
// of conflicting state, such as deleting a table that still has
// active reservations. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrTableUnavailable is returned by the reservation admission check
// when the requested table already has an active reservation whose
// service window overlaps the requested one. Handlers should
// translate this into an HTTP 409 response.
var ErrTableUnavailable = errors.New("table not available for the requested time")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062). Unique indexes back per-venue uniqueness of table
// numbers and menu item names.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

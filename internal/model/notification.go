package model

import "time"

// Notification is a persisted inbox entry produced as a side effect of
// reservation, order and payment state changes.  Exactly one of
// VenueID and CustomerID is set: venue notifications land in the staff
// inbox, customer notifications in the customer inbox.  Rows are never
// mutated except for the read flag and are deleted explicitly by the
// owning party.
//
// Fields:
//  ID            – primary key identifier.
//  VenueID       – staff inbox target (nil for customer notifications).
//  CustomerID    – customer inbox target (nil for venue notifications).
//  Type          – machine-readable tag such as "new_reservation".
//  Title         – short human-readable headline.
//  Message       – free-text body.
//  ReservationID – related reservation, when applicable.
//  IsRead        – whether the owner has read the entry.
//  CreatedAt     – creation timestamp.
type Notification struct {
	ID            uint64    // notifications.id
	VenueID       *uint64   // notifications.venue_id (nullable)
	CustomerID    *uint64   // notifications.customer_id (nullable)
	Type          string    // notifications.type
	Title         string    // notifications.title
	Message       string    // notifications.message
	ReservationID *uint64   // notifications.reservation_id (nullable)
	IsRead        bool      // notifications.is_read
	CreatedAt     time.Time // notifications.created_at
}

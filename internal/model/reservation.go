package model

import "time"

// Reservation records a customer's booking of a table at a venue.  A
// reservation occupies its table for a fixed service window beginning
// at StartsAt.  TableID is nullable: a reservation without an assigned
// table is seated by staff on arrival.  TotalAmountCents is populated
// by associated orders, not by the reservation itself.
//
// Fields:
//  ID                 – primary key identifier.
//  VenueID            – venue being booked.
//  CustomerID         – user who made the reservation.
//  TableID            – assigned table (nil when unassigned).
//  StartsAt           – start of the visit in UTC.
//  PartySize          – number of guests (always positive).
//  Status             – lifecycle state (PENDING, CONFIRMED, ...).
//  SpecialRequests    – optional free-text requests from the customer.
//  CancellationReason – reason supplied with a cancellation request
//                       (nil outside the CANCELLATION_REQUESTED state).
//  TotalAmountCents   – total of orders placed against this reservation.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Reservation struct {
	ID                 uint64    // reservations.id
	VenueID            uint64    // reservations.venue_id
	CustomerID         uint64    // reservations.customer_id
	TableID            *uint64   // reservations.table_id (nullable)
	StartsAt           time.Time // reservations.starts_at
	PartySize          uint32    // reservations.party_size
	Status             string    // reservations.status
	SpecialRequests    *string   // reservations.special_requests (nullable)
	CancellationReason *string   // reservations.cancellation_reason (nullable)
	TotalAmountCents   uint32    // reservations.total_amount_cents
	CreatedAt          time.Time // reservations.created_at
	UpdatedAt          time.Time // reservations.updated_at
}

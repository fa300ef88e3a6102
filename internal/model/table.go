package model

import "time"

// Table describes a physical dining table in a venue.  Tables are
// uniquely identified by their venue and table number.  Capacity is
// the number of seats and is treated as immutable once reservations
// reference the table.
//
// Fields:
//  ID          – primary key identifier.
//  VenueID     – venue to which this table belongs.
//  TableNumber – number of the table within the venue.
//  Capacity    – seating capacity (always positive).
//  Location    – location label such as "window" or "patio".
//  IsAvailable – whether the table is open for new reservations.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Table struct {
	ID          uint64    // tables.id
	VenueID     uint64    // tables.venue_id
	TableNumber uint32    // tables.table_number
	Capacity    uint32    // tables.capacity
	Location    *string   // tables.location (nullable)
	IsAvailable bool      // tables.is_available
	CreatedAt   time.Time // tables.created_at
	UpdatedAt   time.Time // tables.updated_at
}

package model

import "time"

// MenuItem describes a dish or drink offered by a venue.  Prices are
// stored in cents to avoid floating point rounding.  Items can be
// toggled unavailable without deleting them so that historical order
// lines keep their reference.
//
// Fields:
//  ID          – primary key identifier.
//  VenueID     – venue offering the item.
//  Name        – item name unique per venue.
//  Description – optional free-text description.
//  PriceCents  – price in cents.
//  Category    – grouping label such as "starters" or "drinks".
//  IsAvailable – whether the item can currently be ordered.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type MenuItem struct {
	ID          uint64    // menu_items.id
	VenueID     uint64    // menu_items.venue_id
	Name        string    // menu_items.name
	Description *string   // menu_items.description (nullable)
	PriceCents  uint32    // menu_items.price_cents
	Category    *string   // menu_items.category (nullable)
	IsAvailable bool      // menu_items.is_available
	CreatedAt   time.Time // menu_items.created_at
	UpdatedAt   time.Time // menu_items.updated_at
}

package model

import "time"

// Venue represents a restaurant owned by a staff user.  A venue owns
// its tables, menu items, reservations, orders and staff inbox.  This
// struct corresponds to a row in the `venues` table.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – user ID of the venue owner.
//  Name      – unique name of the venue per owner.
//  Address   – street address shown to customers (nil if unset).
//  Phone     – contact phone number (nil if unset).
//  CreatedAt – timestamp when the venue was created.
//  UpdatedAt – timestamp of last update.
type Venue struct {
	ID        uint64    // venues.id
	OwnerID   uint64    // venues.owner_id
	Name      string    // venues.name
	Address   *string   // venues.address (nullable)
	Phone     *string   // venues.phone (nullable)
	CreatedAt time.Time // venues.created_at
	UpdatedAt time.Time // venues.updated_at
}

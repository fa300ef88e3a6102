package model

import "time"

// Order aggregates one or more line items bought by a customer at a
// venue.  Status tracks kitchen fulfillment while PaymentStatus tracks
// money independently; the two advance on separate axes.  Line items
// are immutable once the order is placed.
//
// Fields:
//  ID               – primary key identifier.
//  VenueID          – venue fulfilling the order.
//  CustomerID       – user who placed the order.
//  ReservationID    – reservation the order belongs to (nil for walk-ins).
//  Status           – fulfillment state (PENDING, CONFIRMED, PREPARING,
//                     READY, COMPLETED, CANCELLED).
//  PaymentStatus    – payment state (PENDING, PAID, REFUNDED, FAILED,
//                     EXPIRED).
//  TotalAmountCents – sum of all line items in cents.
//  Notes            – optional free-text notes for the kitchen.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Order struct {
	ID               uint64    // orders.id
	VenueID          uint64    // orders.venue_id
	CustomerID       uint64    // orders.customer_id
	ReservationID    *uint64   // orders.reservation_id (nullable)
	Status           string    // orders.status
	PaymentStatus    string    // orders.payment_status
	TotalAmountCents uint32    // orders.total_amount_cents
	Notes            *string   // orders.notes (nullable)
	CreatedAt        time.Time // orders.created_at
	UpdatedAt        time.Time // orders.updated_at
}

// OrderItem is a single line of an order.  The item name and unit
// price are captured at order time so later menu edits do not change
// historical orders.
//
// Fields:
//  ID             – primary key identifier.
//  OrderID        – order the line belongs to.
//  MenuItemID     – menu item that was ordered.
//  Name           – item name snapshot at order time.
//  Quantity       – number of units ordered (always positive).
//  UnitPriceCents – price per unit in cents at order time.
//  CreatedAt      – creation timestamp.
type OrderItem struct {
	ID             uint64    // order_items.id
	OrderID        uint64    // order_items.order_id
	MenuItemID     uint64    // order_items.menu_item_id
	Name           string    // order_items.name
	Quantity       uint32    // order_items.quantity
	UnitPriceCents uint32    // order_items.unit_price_cents
	CreatedAt      time.Time // order_items.created_at
}

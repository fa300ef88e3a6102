package model

import "time"

// Payment records a single payment attempt against an order, either a
// manual record entered by staff or a request created with the
// external gateway.  GatewayRef holds the reference id sent to the
// gateway and echoed back in its webhook.
//
// Fields:
//  ID          – primary key identifier.
//  OrderID     – order being paid.
//  VenueID     – venue receiving the payment.
//  Method      – payment method ("gateway", "cash", "card").
//  GatewayRef  – reference id shared with the gateway (nil for manual).
//  AmountCents – amount in cents.
//  Status      – payment state (PENDING, PAID, REFUNDED, FAILED, EXPIRED).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Payment struct {
	ID          uint64    // payments.id
	OrderID     uint64    // payments.order_id
	VenueID     uint64    // payments.venue_id
	Method      string    // payments.method
	GatewayRef  *string   // payments.gateway_ref (nullable)
	AmountCents uint32    // payments.amount_cents
	Status      string    // payments.status
	CreatedAt   time.Time // payments.created_at
	UpdatedAt   time.Time // payments.updated_at
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationEvent is published when a reservation changes state.
// It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
// Action is one of "created", "confirmed", "cancellation_requested",
// "cancelled", "no_show" or "completed".
type ReservationEvent struct {
	ReservationID uint64  `json:"reservation_id"`
	VenueID       uint64  `json:"venue_id"`
	VenueName     string  `json:"venue_name"`
	CustomerID    uint64  `json:"customer_id"`
	TableID       *uint64 `json:"table_id,omitempty"`
	StartsAt      string  `json:"starts_at"`
	PartySize     uint32  `json:"party_size"`
	Action        string  `json:"action"`
	Status        string  `json:"status"`
	OccurredAt    string  `json:"occurred_at"`
}

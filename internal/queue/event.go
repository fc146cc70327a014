// Package queue defines message payloads exchanged over the message broker.
package queue

// Routing keys, also used as queue names on the default exchange.
const (
	BookingCreated = "booking.created"
	BookingUpdated = "booking.updated"
)

// BookingEvent is published after a booking is created or moved to
// another room.  PreviousRoomID is only set for booking.updated.
type BookingEvent struct {
	EventID        string `json:"event_id"`
	Type           string `json:"type"`
	BookingID      uint64 `json:"booking_id"`
	UserID         uint64 `json:"user_id"`
	RoomID         uint64 `json:"room_id"`
	PreviousRoomID uint64 `json:"previous_room_id,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}

package model

import "time"

// Booking is a user's claim on a hotel room.  A user holds at most one
// booking; the bookings.user_id column carries a unique key.  Bookings are
// created by POST /booking and only ever have their room replaced afterwards.
type Booking struct {
	ID        uint64    `json:"id"`        // bookings.id
	UserID    uint64    `json:"userId"`    // bookings.user_id
	RoomID    uint64    `json:"roomId"`    // bookings.room_id
	CreatedAt time.Time `json:"createdAt"` // bookings.created_at
	UpdatedAt time.Time `json:"updatedAt"` // bookings.updated_at
	Room      *Room     `json:"Room,omitempty"`
}

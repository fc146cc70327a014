package model

import "time"

// Hotel groups rooms offered to event attendees.
type Hotel struct {
	ID        uint64    `json:"id"`        // hotels.id
	Name      string    `json:"name"`      // hotels.name
	Image     string    `json:"image"`     // hotels.image
	CreatedAt time.Time `json:"createdAt"` // hotels.created_at
	UpdatedAt time.Time `json:"updatedAt"` // hotels.updated_at
}

// Room is a bookable hotel room with a fixed capacity.
//
// Fields:
//
//	ID           – primary key identifier.
//	Name         – display name of the room.
//	Capacity     – maximum number of bookings the room may hold.
//	HotelID      – hotel the room belongs to.
//	BookingCount – number of bookings currently referencing the room.  It is
//	               derived with COUNT(*) when the room is loaded and is never
//	               stored.
type Room struct {
	ID           uint64    `json:"id"`        // rooms.id
	Name         string    `json:"name"`      // rooms.name
	Capacity     uint32    `json:"capacity"`  // rooms.capacity
	HotelID      uint64    `json:"hotelId"`   // rooms.hotel_id
	BookingCount uint32    `json:"-"`         // derived
	CreatedAt    time.Time `json:"createdAt"` // rooms.created_at
	UpdatedAt    time.Time `json:"updatedAt"` // rooms.updated_at
}

// HasVacancy reports whether one more booking fits into the room.
func (r Room) HasVacancy() bool {
	return r.BookingCount < r.Capacity
}

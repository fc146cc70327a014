package model

import "time"

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	TicketStatusReserved TicketStatus = "RESERVED"
	TicketStatusPaid     TicketStatus = "PAID"
)

// Enrollment is a user's registration for the event.  It is created
// elsewhere; this service only reads it.
type Enrollment struct {
	ID        uint64    `json:"id"`        // enrollments.id
	UserID    uint64    `json:"userId"`    // enrollments.user_id
	Name      string    `json:"name"`      // enrollments.name
	CreatedAt time.Time `json:"createdAt"` // enrollments.created_at
	UpdatedAt time.Time `json:"updatedAt"` // enrollments.updated_at
}

// TicketType is a catalog entry.  Its flags decide whether a ticket holder
// may book a hotel room.
type TicketType struct {
	ID            uint64    `json:"id"`            // ticket_types.id
	Name          string    `json:"name"`          // ticket_types.name
	Price         uint32    `json:"price"`         // ticket_types.price
	IsRemote      bool      `json:"isRemote"`      // ticket_types.is_remote
	IncludesHotel bool      `json:"includesHotel"` // ticket_types.includes_hotel
	CreatedAt     time.Time `json:"createdAt"`     // ticket_types.created_at
	UpdatedAt     time.Time `json:"updatedAt"`     // ticket_types.updated_at
}

// Ticket belongs to exactly one enrollment (tickets.enrollment_id is unique).
// TicketType is populated when the ticket is loaded together with its type.
type Ticket struct {
	ID           uint64       `json:"id"`           // tickets.id
	Status       TicketStatus `json:"status"`       // tickets.status
	TicketTypeID uint64       `json:"ticketTypeId"` // tickets.ticket_type_id
	EnrollmentID uint64       `json:"enrollmentId"` // tickets.enrollment_id
	CreatedAt    time.Time    `json:"createdAt"`    // tickets.created_at
	UpdatedAt    time.Time    `json:"updatedAt"`    // tickets.updated_at
	TicketType   *TicketType  `json:"TicketType,omitempty"`
}

// IsPaid reports whether the ticket has been paid for.
func (t Ticket) IsPaid() bool { return t.Status == TicketStatusPaid }

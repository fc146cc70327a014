package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure.  The transport layer maps each kind
// to a status code; the services themselves know nothing about HTTP.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindPaymentRequired
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindForbidden:
		return "Forbidden"
	case KindConflict:
		return "Conflict"
	case KindPaymentRequired:
		return "PaymentRequired"
	}
	return "Unknown"
}

// Error is a classified service failure carrying a client-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

// KindOf returns the kind of err, or KindUnknown when err is not a
// service Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

func notFound(msg string) *Error  { return &Error{Kind: KindNotFound, Message: msg} }
func forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }
func conflict(msg string) *Error  { return &Error{Kind: KindConflict, Message: msg} }

// Messages returned to clients.
const (
	MsgNotFound           = "no result for this search"
	MsgTicketTypeNotFound = "ticket type not found"
	MsgRoomFull           = "room is full"
	MsgAlreadyBooked      = "user already has a booking"
	MsgNoBooking          = "user has no booking"
	MsgNotBookingOwner    = "booking belongs to another user"
	MsgNoEnrollment       = "user has no enrollment"
	MsgNoTicket           = "user has no ticket"
	MsgTicketNotPaid      = "ticket has not been paid"
	MsgTicketNoHotel      = "ticket type does not include hotel"
	MsgTicketRemote       = "ticket type is remote"
	MsgTicketExists       = "a ticket for this enrollment already exists"
)

// Package service holds the booking eligibility engine and the ticket
// flow.  Services talk to storage only through repository.Gateway and
// report failures as *Error values; mapping to HTTP happens in the
// handler package.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/queue"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
)

// EventPublisher delivers booking events to downstream consumers.
type EventPublisher interface {
	PublishBooking(ctx context.Context, ev queue.BookingEvent) error
}

// BookingServiceConfig holds dependencies for BookingService.  Events and
// Logger are optional.
type BookingServiceConfig struct {
	Gateway repository.Gateway
	Events  EventPublisher
	Logger  *slog.Logger
}

// BookingService decides whether a user may book or change a hotel room
// and performs the resulting write.
type BookingService struct {
	gw     repository.Gateway
	events EventPublisher
	log    *slog.Logger
}

func NewBookingService(cfg BookingServiceConfig) *BookingService {
	if cfg.Gateway == nil {
		panic("nil gateway passed to NewBookingService")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{gw: cfg.Gateway, events: cfg.Events, log: logger}
}

// attempt carries the request and whatever the checks have loaded so far.
// Later checks read what earlier ones stored.
type attempt struct {
	userID    uint64
	roomID    uint64
	bookingID uint64

	room       *model.Room
	booking    *model.Booking
	enrollment *model.Enrollment
	ticket     *model.Ticket
}

// check is one step of a validation chain.  It returns a *Error when the
// rule is violated and any other error when storage fails.
type check func(ctx context.Context, gw repository.Gateway, a *attempt) error

// The order of each chain decides which error a caller sees first.
var (
	createChecks = []check{
		roomExists,
		roomHasVacancy,
		userHasNoBooking,
		userHasEnrollment,
		enrollmentHasTicket,
		ticketIsPaid,
		ticketIncludesHotel,
		ticketIsNotRemote,
	}
	updateChecks = []check{
		roomExists,
		roomHasVacancy,
		userHasBooking,
		bookingOwnedByUser,
	}
)

func runChecks(ctx context.Context, gw repository.Gateway, a *attempt, checks []check) error {
	for _, c := range checks {
		if err := c(ctx, gw, a); err != nil {
			return err
		}
	}
	return nil
}

func roomExists(ctx context.Context, gw repository.Gateway, a *attempt) error {
	room, err := gw.FindRoomByID(ctx, a.roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(MsgNotFound)
	}
	if err != nil {
		return err
	}
	a.room = room
	return nil
}

func roomHasVacancy(_ context.Context, _ repository.Gateway, a *attempt) error {
	if !a.room.HasVacancy() {
		return forbidden(MsgRoomFull)
	}
	return nil
}

func userHasNoBooking(ctx context.Context, gw repository.Gateway, a *attempt) error {
	_, err := gw.FindBookingByUser(ctx, a.userID)
	switch {
	case err == nil:
		return forbidden(MsgAlreadyBooked)
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return err
	}
}

func userHasBooking(ctx context.Context, gw repository.Gateway, a *attempt) error {
	b, err := gw.FindBookingByUser(ctx, a.userID)
	if errors.Is(err, repository.ErrNotFound) {
		return forbidden(MsgNoBooking)
	}
	if err != nil {
		return err
	}
	a.booking = b
	return nil
}

func bookingOwnedByUser(_ context.Context, _ repository.Gateway, a *attempt) error {
	if a.booking.ID != a.bookingID {
		return forbidden(MsgNotBookingOwner)
	}
	return nil
}

func userHasEnrollment(ctx context.Context, gw repository.Gateway, a *attempt) error {
	e, err := gw.FindEnrollmentByUser(ctx, a.userID)
	if errors.Is(err, repository.ErrNotFound) {
		return forbidden(MsgNoEnrollment)
	}
	if err != nil {
		return err
	}
	a.enrollment = e
	return nil
}

func enrollmentHasTicket(ctx context.Context, gw repository.Gateway, a *attempt) error {
	t, err := gw.FindTicketByEnrollment(ctx, a.enrollment.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return forbidden(MsgNoTicket)
	}
	if err != nil {
		return err
	}
	a.ticket = t
	return nil
}

func ticketIsPaid(_ context.Context, _ repository.Gateway, a *attempt) error {
	if !a.ticket.IsPaid() {
		return forbidden(MsgTicketNotPaid)
	}
	return nil
}

func ticketIncludesHotel(_ context.Context, _ repository.Gateway, a *attempt) error {
	if a.ticket.TicketType == nil || !a.ticket.TicketType.IncludesHotel {
		return forbidden(MsgTicketNoHotel)
	}
	return nil
}

func ticketIsNotRemote(_ context.Context, _ repository.Gateway, a *attempt) error {
	if a.ticket.TicketType == nil || a.ticket.TicketType.IsRemote {
		return forbidden(MsgTicketRemote)
	}
	return nil
}

// GetBooking returns the user's booking with its room, or a NotFound
// error when the user has none.
func (s *BookingService) GetBooking(ctx context.Context, userID uint64) (*model.Booking, error) {
	b, err := s.gw.FindBookingByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(MsgNotFound)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateBooking books roomID for userID and returns the new booking id.
// The checks and the insert share one transaction, and the room row stays
// locked until commit, so two requests for the last free slot cannot both
// succeed.
func (s *BookingService) CreateBooking(ctx context.Context, userID, roomID uint64) (uint64, error) {
	a := &attempt{userID: userID, roomID: roomID}
	var id uint64
	err := s.gw.InTx(ctx, func(tx repository.Gateway) error {
		if err := runChecks(ctx, tx, a, createChecks); err != nil {
			return err
		}
		newID, err := tx.InsertBooking(ctx, userID, roomID)
		if errors.Is(err, repository.ErrDuplicate) {
			return forbidden(MsgAlreadyBooked)
		}
		if err != nil {
			return err
		}
		id = newID
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.publish(ctx, queue.BookingEvent{
		Type:      queue.BookingCreated,
		BookingID: id,
		UserID:    userID,
		RoomID:    roomID,
	})
	return id, nil
}

// UpdateBooking moves the user's booking bookingID to roomID.  Ticket
// eligibility is not re-checked; the booking must belong to the user.
func (s *BookingService) UpdateBooking(ctx context.Context, userID, roomID, bookingID uint64) (uint64, error) {
	a := &attempt{userID: userID, roomID: roomID, bookingID: bookingID}
	var id uint64
	err := s.gw.InTx(ctx, func(tx repository.Gateway) error {
		if err := runChecks(ctx, tx, a, updateChecks); err != nil {
			return err
		}
		updated, err := tx.UpdateBookingRoom(ctx, bookingID, roomID)
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(MsgNotFound)
		}
		if err != nil {
			return err
		}
		id = updated
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.publish(ctx, queue.BookingEvent{
		Type:           queue.BookingUpdated,
		BookingID:      id,
		UserID:         userID,
		RoomID:         roomID,
		PreviousRoomID: a.booking.RoomID,
	})
	return id, nil
}

// publish logs and drops delivery failures; the booking is already
// committed when it runs.
func (s *BookingService) publish(ctx context.Context, ev queue.BookingEvent) {
	if s.events == nil {
		return
	}
	ev.EventID = uuid.NewString()
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.events.PublishBooking(ctx, ev); err != nil {
		s.log.Warn("publish booking event failed",
			slog.String("type", ev.Type),
			slog.Uint64("booking_id", ev.BookingID),
			slog.String("error", err.Error()),
		)
	}
}

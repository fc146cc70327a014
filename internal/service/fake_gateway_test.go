package service

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/queue"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
)

// fakeGateway is an in-memory repository.Gateway.  InTx holds a mutex for
// the whole callback, which gives the same per-transaction serialization
// the MySQL store gets from row locks.
type fakeGateway struct {
	mu sync.Mutex

	rooms       map[uint64]*model.Room
	bookings    map[uint64]*model.Booking // by booking id
	enrollments map[uint64]*model.Enrollment
	tickets     map[uint64]*model.Ticket // by enrollment id
	types       map[uint64]*model.TicketType
	nextID      uint64

	// storage failure injected into every lookup when set
	failWith error
	// number of lookups performed, used to assert short-circuiting
	calls map[string]int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		rooms:       map[uint64]*model.Room{},
		bookings:    map[uint64]*model.Booking{},
		enrollments: map[uint64]*model.Enrollment{},
		tickets:     map[uint64]*model.Ticket{},
		types:       map[uint64]*model.TicketType{},
		nextID:      100,
		calls:       map[string]int{},
	}
}

func (f *fakeGateway) id() uint64 {
	f.nextID++
	return f.nextID
}

func (f *fakeGateway) addRoom(capacity uint32) uint64 {
	id := f.id()
	f.rooms[id] = &model.Room{ID: id, Name: "Room", Capacity: capacity, HotelID: 1}
	return id
}

func (f *fakeGateway) addBooking(userID, roomID uint64) uint64 {
	id := f.id()
	now := time.Now().UTC()
	f.bookings[id] = &model.Booking{ID: id, UserID: userID, RoomID: roomID, CreatedAt: now, UpdatedAt: now}
	return id
}

// enroll gives the user an enrollment and, when status is not empty, a
// ticket of a new type with the given flags.
func (f *fakeGateway) enroll(userID uint64, status model.TicketStatus, remote, hotel bool) {
	eid := f.id()
	f.enrollments[userID] = &model.Enrollment{ID: eid, UserID: userID, Name: "Attendee"}
	if status == "" {
		return
	}
	tt := f.addTicketType(remote, hotel)
	f.tickets[eid] = &model.Ticket{ID: f.id(), Status: status, TicketTypeID: tt, EnrollmentID: eid}
}

func (f *fakeGateway) addTicketType(remote, hotel bool) uint64 {
	id := f.id()
	f.types[id] = &model.TicketType{ID: id, Name: "Type", Price: 250, IsRemote: remote, IncludesHotel: hotel}
	return id
}

func (f *fakeGateway) countBookings(roomID uint64) uint32 {
	var n uint32
	for _, b := range f.bookings {
		if b.RoomID == roomID {
			n++
		}
	}
	return n
}

func (f *fakeGateway) FindBookingByUser(_ context.Context, userID uint64) (*model.Booking, error) {
	f.calls["FindBookingByUser"]++
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, b := range f.bookings {
		if b.UserID == userID {
			cp := *b
			room := *f.rooms[b.RoomID]
			cp.Room = &room
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeGateway) FindRoomByID(_ context.Context, roomID uint64) (*model.Room, error) {
	f.calls["FindRoomByID"]++
	if f.failWith != nil {
		return nil, f.failWith
	}
	r, ok := f.rooms[roomID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	cp.BookingCount = f.countBookings(roomID)
	return &cp, nil
}

func (f *fakeGateway) InsertBooking(_ context.Context, userID, roomID uint64) (uint64, error) {
	for _, b := range f.bookings {
		if b.UserID == userID {
			return 0, repository.ErrDuplicate
		}
	}
	return f.addBooking(userID, roomID), nil
}

func (f *fakeGateway) UpdateBookingRoom(_ context.Context, bookingID, roomID uint64) (uint64, error) {
	b, ok := f.bookings[bookingID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	b.RoomID = roomID
	b.UpdatedAt = time.Now().UTC()
	return bookingID, nil
}

func (f *fakeGateway) FindTicketTypeByID(_ context.Context, id uint64) (*model.TicketType, error) {
	f.calls["FindTicketTypeByID"]++
	if f.failWith != nil {
		return nil, f.failWith
	}
	tt, ok := f.types[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *tt
	return &cp, nil
}

func (f *fakeGateway) FindEnrollmentByUser(_ context.Context, userID uint64) (*model.Enrollment, error) {
	f.calls["FindEnrollmentByUser"]++
	if f.failWith != nil {
		return nil, f.failWith
	}
	e, ok := f.enrollments[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeGateway) FindTicketByEnrollment(_ context.Context, enrollmentID uint64) (*model.Ticket, error) {
	f.calls["FindTicketByEnrollment"]++
	if f.failWith != nil {
		return nil, f.failWith
	}
	t, ok := f.tickets[enrollmentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	tt := *f.types[t.TicketTypeID]
	cp.TicketType = &tt
	return &cp, nil
}

func (f *fakeGateway) InsertTicket(_ context.Context, enrollmentID, ticketTypeID uint64) (*model.Ticket, error) {
	if _, ok := f.tickets[enrollmentID]; ok {
		return nil, repository.ErrDuplicate
	}
	now := time.Now().UTC()
	t := &model.Ticket{
		ID: f.id(), Status: model.TicketStatusReserved, TicketTypeID: ticketTypeID,
		EnrollmentID: enrollmentID, CreatedAt: now, UpdatedAt: now,
	}
	f.tickets[enrollmentID] = t
	cp := *t
	return &cp, nil
}

func (f *fakeGateway) ListTicketTypes(_ context.Context) ([]model.TicketType, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]model.TicketType, 0, len(f.types))
	for _, tt := range f.types {
		out = append(out, *tt)
	}
	return out, nil
}

func (f *fakeGateway) InTx(_ context.Context, fn func(repository.Gateway) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	err    error
}

func (p *recordingPublisher) PublishBooking(_ context.Context, ev queue.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

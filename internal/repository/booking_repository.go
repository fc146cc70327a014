package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// FindBookingByUser returns the user's booking together with its room.
// ErrNotFound is returned when the user has no booking.
func (s *Store) FindBookingByUser(ctx context.Context, userID uint64) (*model.Booking, error) {
	const q = `SELECT b.id, b.user_id, b.room_id, b.created_at, b.updated_at,
                      r.id, r.name, r.capacity, r.hotel_id, r.created_at, r.updated_at
               FROM bookings b
               JOIN rooms r ON r.id = b.room_id
               WHERE b.user_id = ?
               LIMIT 1`
	var b model.Booking
	var room model.Room
	err := s.q.QueryRowContext(ctx, q, userID).Scan(
		&b.ID, &b.UserID, &b.RoomID, &b.CreatedAt, &b.UpdatedAt,
		&room.ID, &room.Name, &room.Capacity, &room.HotelID, &room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find booking by user: %w", err)
	}
	b.Room = &room
	return &b, nil
}

// FindRoomByID loads a room and the number of bookings referencing it.
// Inside a transaction the room row is locked until commit and the count
// is a locking read, so a second writer targeting the same room waits for
// the first one to finish and then sees its booking.
func (s *Store) FindRoomByID(ctx context.Context, roomID uint64) (*model.Room, error) {
	countLock, rowLock := "", ""
	if s.tx {
		countLock, rowLock = " FOR SHARE", " FOR UPDATE"
	}
	q := `SELECT r.id, r.name, r.capacity, r.hotel_id, r.created_at, r.updated_at,
                 (SELECT COUNT(*) FROM bookings b WHERE b.room_id = r.id` + countLock + `)
          FROM rooms r
          WHERE r.id = ?` + rowLock
	var r model.Room
	err := s.q.QueryRowContext(ctx, q, roomID).Scan(
		&r.ID, &r.Name, &r.Capacity, &r.HotelID, &r.CreatedAt, &r.UpdatedAt, &r.BookingCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find room: %w", err)
	}
	return &r, nil
}

// InsertBooking creates a booking linking userID and roomID and returns
// its id.  ErrDuplicate is returned when the user already has a booking.
func (s *Store) InsertBooking(ctx context.Context, userID, roomID uint64) (uint64, error) {
	const q = `INSERT INTO bookings (user_id, room_id) VALUES (?, ?)`
	res, err := s.q.ExecContext(ctx, q, userID, roomID)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}
	return uint64(id), nil
}

// UpdateBookingRoom points an existing booking at another room and
// returns the booking id.  ErrNotFound is returned when no booking has
// the given id.
func (s *Store) UpdateBookingRoom(ctx context.Context, bookingID, roomID uint64) (uint64, error) {
	const q = `UPDATE bookings SET room_id = ?, updated_at = CURRENT_TIMESTAMP(3) WHERE id = ?`
	res, err := s.q.ExecContext(ctx, q, roomID, bookingID)
	if err != nil {
		return 0, fmt.Errorf("update booking room: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update booking room: %w", err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	return bookingID, nil
}

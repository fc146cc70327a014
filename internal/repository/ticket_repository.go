package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

const ticketTypeColumns = `tt.id, tt.name, tt.price, tt.is_remote, tt.includes_hotel, tt.created_at, tt.updated_at`

// FindTicketTypeByID returns a catalog entry or ErrNotFound.
func (s *Store) FindTicketTypeByID(ctx context.Context, ticketTypeID uint64) (*model.TicketType, error) {
	q := `SELECT ` + ticketTypeColumns + ` FROM ticket_types tt WHERE tt.id = ?`
	var tt model.TicketType
	err := s.q.QueryRowContext(ctx, q, ticketTypeID).Scan(
		&tt.ID, &tt.Name, &tt.Price, &tt.IsRemote, &tt.IncludesHotel, &tt.CreatedAt, &tt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find ticket type: %w", err)
	}
	return &tt, nil
}

// FindEnrollmentByUser returns the user's enrollment or ErrNotFound.
func (s *Store) FindEnrollmentByUser(ctx context.Context, userID uint64) (*model.Enrollment, error) {
	const q = `SELECT id, user_id, name, created_at, updated_at FROM enrollments WHERE user_id = ? LIMIT 1`
	var e model.Enrollment
	err := s.q.QueryRowContext(ctx, q, userID).Scan(&e.ID, &e.UserID, &e.Name, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &e, nil
}

// FindTicketByEnrollment returns the enrollment's ticket with its type
// populated, or ErrNotFound.
func (s *Store) FindTicketByEnrollment(ctx context.Context, enrollmentID uint64) (*model.Ticket, error) {
	q := `SELECT t.id, t.status, t.ticket_type_id, t.enrollment_id, t.created_at, t.updated_at, ` + ticketTypeColumns + `
          FROM tickets t
          JOIN ticket_types tt ON tt.id = t.ticket_type_id
          WHERE t.enrollment_id = ?
          LIMIT 1`
	var t model.Ticket
	var tt model.TicketType
	err := s.q.QueryRowContext(ctx, q, enrollmentID).Scan(
		&t.ID, &t.Status, &t.TicketTypeID, &t.EnrollmentID, &t.CreatedAt, &t.UpdatedAt,
		&tt.ID, &tt.Name, &tt.Price, &tt.IsRemote, &tt.IncludesHotel, &tt.CreatedAt, &tt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	t.TicketType = &tt
	return &t, nil
}

// InsertTicket creates a RESERVED ticket for the enrollment and reads the
// row back to pick up database defaults.  ErrDuplicate is returned when
// the enrollment already has a ticket.
func (s *Store) InsertTicket(ctx context.Context, enrollmentID, ticketTypeID uint64) (*model.Ticket, error) {
	const q = `INSERT INTO tickets (ticket_type_id, enrollment_id, status) VALUES (?, ?, ?)`
	res, err := s.q.ExecContext(ctx, q, ticketTypeID, enrollmentID, model.TicketStatusReserved)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert ticket: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}
	const sel = `SELECT id, status, ticket_type_id, enrollment_id, created_at, updated_at FROM tickets WHERE id = ?`
	var t model.Ticket
	if err := s.q.QueryRowContext(ctx, sel, id).Scan(
		&t.ID, &t.Status, &t.TicketTypeID, &t.EnrollmentID, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("read back ticket: %w", err)
	}
	return &t, nil
}

// ListTicketTypes returns the whole catalog ordered by id.  An empty
// catalog yields an empty, non-nil slice.
func (s *Store) ListTicketTypes(ctx context.Context) ([]model.TicketType, error) {
	q := `SELECT ` + ticketTypeColumns + ` FROM ticket_types tt ORDER BY tt.id`
	rows, err := s.q.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	defer rows.Close()
	out := make([]model.TicketType, 0)
	for rows.Next() {
		var tt model.TicketType
		if err := rows.Scan(&tt.ID, &tt.Name, &tt.Price, &tt.IsRemote, &tt.IncludesHotel, &tt.CreatedAt, &tt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket type: %w", err)
		}
		out = append(out, tt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	return out, nil
}

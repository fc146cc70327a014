package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// Gateway is the persistence contract used by the booking and ticket
// services.  Lookups that match nothing return ErrNotFound; inserts that
// break a unique key return ErrDuplicate.
type Gateway interface {
	FindBookingByUser(ctx context.Context, userID uint64) (*model.Booking, error)
	FindRoomByID(ctx context.Context, roomID uint64) (*model.Room, error)
	InsertBooking(ctx context.Context, userID, roomID uint64) (uint64, error)
	UpdateBookingRoom(ctx context.Context, bookingID, roomID uint64) (uint64, error)

	FindTicketTypeByID(ctx context.Context, ticketTypeID uint64) (*model.TicketType, error)
	FindEnrollmentByUser(ctx context.Context, userID uint64) (*model.Enrollment, error)
	FindTicketByEnrollment(ctx context.Context, enrollmentID uint64) (*model.Ticket, error)
	InsertTicket(ctx context.Context, enrollmentID, ticketTypeID uint64) (*model.Ticket, error)
	ListTicketTypes(ctx context.Context) ([]model.TicketType, error)

	// InTx runs fn against a Gateway bound to a single transaction.  The
	// transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(Gateway) error) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the MySQL implementation of Gateway.  A Store returned by
// NewStore runs each statement on its own; the Store handed to an InTx
// callback runs every statement in one transaction and takes row locks on
// the rooms it reads so capacity checks and booking writes are serialized.
type Store struct {
	db *sql.DB
	q  querier
	tx bool
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB) *Store { return &Store{db: db, q: db} }

// DB exposes the underlying sql.DB.
func (s *Store) DB() *sql.DB { return s.db }

// maxTxAttempts bounds how often InTx runs a callback that InnoDB aborted
// with a deadlock or lock wait timeout.
const maxTxAttempts = 3

// InTx begins a transaction, runs fn and commits.  A transaction aborted by
// a deadlock or lock wait timeout is rolled back and fn runs again, up to
// maxTxAttempts times, so fn must not have effects outside the transaction.
// Nested calls reuse the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(Gateway) error) error {
	if s.tx {
		return fn(s)
	}
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.runTx(ctx, fn)
		if !isRetryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (s *Store) runTx(ctx context.Context, fn func(Gateway) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&Store{db: s.db, q: tx, tx: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

var _ Gateway = (*Store)(nil)

package service

import (
	"context"
	"errors"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
)

// TicketService reserves tickets and reads the ticket-type catalog.
type TicketService struct {
	gw repository.Gateway
}

func NewTicketService(gw repository.Gateway) *TicketService {
	if gw == nil {
		panic("nil gateway passed to NewTicketService")
	}
	return &TicketService{gw: gw}
}

// CreateTicket reserves a ticket of the given type for the user's
// enrollment.  The returned ticket has its TicketType populated.
func (s *TicketService) CreateTicket(ctx context.Context, userID, ticketTypeID uint64) (*model.Ticket, error) {
	var out *model.Ticket
	err := s.gw.InTx(ctx, func(tx repository.Gateway) error {
		tt, err := tx.FindTicketTypeByID(ctx, ticketTypeID)
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(MsgTicketTypeNotFound)
		}
		if err != nil {
			return err
		}
		enrollment, err := tx.FindEnrollmentByUser(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(MsgNotFound)
		}
		if err != nil {
			return err
		}
		_, err = tx.FindTicketByEnrollment(ctx, enrollment.ID)
		if err == nil {
			return conflict(MsgTicketExists)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		t, err := tx.InsertTicket(ctx, enrollment.ID, tt.ID)
		if errors.Is(err, repository.ErrDuplicate) {
			return conflict(MsgTicketExists)
		}
		if err != nil {
			return err
		}
		t.TicketType = tt
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetTicket returns the ticket held by the user's enrollment.
func (s *TicketService) GetTicket(ctx context.Context, userID uint64) (*model.Ticket, error) {
	enrollment, err := s.gw.FindEnrollmentByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(MsgNotFound)
	}
	if err != nil {
		return nil, err
	}
	t, err := s.gw.FindTicketByEnrollment(ctx, enrollment.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(MsgNotFound)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTicketTypes returns the ticket-type catalog.
func (s *TicketService) ListTicketTypes(ctx context.Context) ([]model.TicketType, error) {
	return s.gw.ListTicketTypes(ctx)
}

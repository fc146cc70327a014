package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// TicketService is the part of service.TicketService the handlers use.
type TicketService interface {
	CreateTicket(ctx context.Context, userID, ticketTypeID uint64) (*model.Ticket, error)
	GetTicket(ctx context.Context, userID uint64) (*model.Ticket, error)
	ListTicketTypes(ctx context.Context) ([]model.TicketType, error)
}

// TicketHandler serves /tickets.
type TicketHandler struct {
	svc TicketService
	log *slog.Logger
}

func NewTicketHandler(svc TicketService, logger *slog.Logger) *TicketHandler {
	if svc == nil {
		panic("nil service passed to NewTicketHandler")
	}
	return &TicketHandler{svc: svc, log: orDefault(logger)}
}

// CreateTicket handles POST /tickets with {"ticketTypeId": n} and answers
// 201 with the reserved ticket.
func (h *TicketHandler) CreateTicket(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var body struct {
		TicketTypeID uint64 `json:"ticketTypeId"`
	}
	if err := c.Bind(&body); err != nil || body.TicketTypeID == 0 {
		return badRequest(c, "ticketTypeId must be a positive integer")
	}
	t, err := h.svc.CreateTicket(c.Request().Context(), userID, body.TicketTypeID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// GetTicket handles GET /tickets.
func (h *TicketHandler) GetTicket(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	t, err := h.svc.GetTicket(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, t)
}

// ListTicketTypes handles GET /tickets/types.
func (h *TicketHandler) ListTicketTypes(c echo.Context) error {
	types, err := h.svc.ListTicketTypes(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, types)
}

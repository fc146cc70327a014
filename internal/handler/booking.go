package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// BookingService is the part of service.BookingService the handlers use.
type BookingService interface {
	GetBooking(ctx context.Context, userID uint64) (*model.Booking, error)
	CreateBooking(ctx context.Context, userID, roomID uint64) (uint64, error)
	UpdateBooking(ctx context.Context, userID, roomID, bookingID uint64) (uint64, error)
}

// BookingHandler serves /booking.  All routes sit behind JWTAuth.
type BookingHandler struct {
	svc BookingService
	log *slog.Logger
}

func NewBookingHandler(svc BookingService, logger *slog.Logger) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{svc: svc, log: orDefault(logger)}
}

type roomRequest struct {
	RoomID uint64 `json:"roomId"`
}

// bindRoom rejects bodies without a positive roomId.
func bindRoom(c echo.Context) (uint64, bool) {
	var body roomRequest
	if err := c.Bind(&body); err != nil || body.RoomID == 0 {
		return 0, false
	}
	return body.RoomID, true
}

// GetBooking handles GET /booking.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	b, err := h.svc.GetBooking(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// CreateBooking handles POST /booking with {"roomId": n}.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	roomID, ok := bindRoom(c)
	if !ok {
		return badRequest(c, "roomId must be a positive integer")
	}
	id, err := h.svc.CreateBooking(c.Request().Context(), userID, roomID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookingId": id})
}

// UpdateBooking handles PUT /booking/:bookingId with {"roomId": n}.
func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 64)
	if err != nil || bookingID == 0 {
		return badRequest(c, "invalid booking id")
	}
	roomID, ok := bindRoom(c)
	if !ok {
		return badRequest(c, "roomId must be a positive integer")
	}
	id, err := h.svc.UpdateBooking(c.Request().Context(), userID, roomID, bookingID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookingId": id})
}

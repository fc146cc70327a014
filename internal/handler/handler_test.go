package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/service"
)

type stubBookings struct {
	get    func(ctx context.Context, userID uint64) (*model.Booking, error)
	create func(ctx context.Context, userID, roomID uint64) (uint64, error)
	update func(ctx context.Context, userID, roomID, bookingID uint64) (uint64, error)
}

func (s *stubBookings) GetBooking(ctx context.Context, userID uint64) (*model.Booking, error) {
	return s.get(ctx, userID)
}

func (s *stubBookings) CreateBooking(ctx context.Context, userID, roomID uint64) (uint64, error) {
	return s.create(ctx, userID, roomID)
}

func (s *stubBookings) UpdateBooking(ctx context.Context, userID, roomID, bookingID uint64) (uint64, error) {
	return s.update(ctx, userID, roomID, bookingID)
}

type stubTickets struct {
	create func(ctx context.Context, userID, ticketTypeID uint64) (*model.Ticket, error)
	get    func(ctx context.Context, userID uint64) (*model.Ticket, error)
	list   func(ctx context.Context) ([]model.TicketType, error)
}

func (s *stubTickets) CreateTicket(ctx context.Context, userID, ticketTypeID uint64) (*model.Ticket, error) {
	return s.create(ctx, userID, ticketTypeID)
}

func (s *stubTickets) GetTicket(ctx context.Context, userID uint64) (*model.Ticket, error) {
	return s.get(ctx, userID)
}

func (s *stubTickets) ListTicketTypes(ctx context.Context) ([]model.TicketType, error) {
	return s.list(ctx)
}

// call runs h for one request.  userID 0 leaves the context unauthenticated.
func call(h echo.HandlerFunc, method, target, body string, userID uint64, params ...string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	if userID != 0 {
		c.Set("user_id", userID)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out["error"]
}

func TestGetBooking_RendersBookingWithRoom(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	h := NewBookingHandler(&stubBookings{
		get: func(_ context.Context, userID uint64) (*model.Booking, error) {
			return &model.Booking{
				ID: 3, UserID: userID, RoomID: 11, CreatedAt: now, UpdatedAt: now,
				Room: &model.Room{ID: 11, Name: "Suite", Capacity: 3, HotelID: 2, BookingCount: 1},
			}, nil
		},
	}, nil)

	rec := call(h.GetBooking, http.MethodGet, "/booking", "", 7)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.EqualValues(t, 3, got["id"])
	assert.EqualValues(t, 7, got["userId"])
	assert.EqualValues(t, 11, got["roomId"])
	room, ok := got["Room"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Suite", room["name"])
	assert.NotContains(t, room, "BookingCount")
}

func TestGetBooking_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", &service.Error{Kind: service.KindNotFound, Message: service.MsgNotFound}, http.StatusNotFound, service.MsgNotFound},
		{"forbidden", &service.Error{Kind: service.KindForbidden, Message: service.MsgRoomFull}, http.StatusForbidden, service.MsgRoomFull},
		{"conflict", &service.Error{Kind: service.KindConflict, Message: service.MsgTicketExists}, http.StatusConflict, service.MsgTicketExists},
		{"payment required", &service.Error{Kind: service.KindPaymentRequired, Message: "pay first"}, http.StatusPaymentRequired, "pay first"},
		{"storage failure", errors.New("dial tcp: refused"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewBookingHandler(&stubBookings{
				get: func(context.Context, uint64) (*model.Booking, error) { return nil, tc.err },
			}, nil)
			rec := call(h.GetBooking, http.MethodGet, "/booking", "", 7)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.msg, errorBody(t, rec))
		})
	}
}

func TestBooking_RequiresUser(t *testing.T) {
	h := NewBookingHandler(&stubBookings{}, nil)
	assert.Equal(t, http.StatusUnauthorized, call(h.GetBooking, http.MethodGet, "/booking", "", 0).Code)
	assert.Equal(t, http.StatusUnauthorized, call(h.CreateBooking, http.MethodPost, "/booking", `{"roomId":1}`, 0).Code)
	assert.Equal(t, http.StatusUnauthorized, call(h.UpdateBooking, http.MethodPut, "/booking/1", `{"roomId":1}`, 0, "bookingId", "1").Code)
}

func TestCreateBooking(t *testing.T) {
	var gotUser, gotRoom uint64
	h := NewBookingHandler(&stubBookings{
		create: func(_ context.Context, userID, roomID uint64) (uint64, error) {
			gotUser, gotRoom = userID, roomID
			return 42, nil
		},
	}, nil)

	rec := call(h.CreateBooking, http.MethodPost, "/booking", `{"roomId":5}`, 7)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bookingId":42}`, rec.Body.String())
	assert.Equal(t, uint64(7), gotUser)
	assert.Equal(t, uint64(5), gotRoom)
}

func TestCreateBooking_InvalidBody(t *testing.T) {
	h := NewBookingHandler(&stubBookings{
		create: func(context.Context, uint64, uint64) (uint64, error) {
			t.Fatal("service must not be called")
			return 0, nil
		},
	}, nil)
	for _, body := range []string{"", `{}`, `{"roomId":0}`, `{"roomId":-1}`, `{"roomId":"abc"}`, `{`} {
		rec := call(h.CreateBooking, http.MethodPost, "/booking", body, 7)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestCreateBooking_ForbiddenCarriesMessage(t *testing.T) {
	h := NewBookingHandler(&stubBookings{
		create: func(context.Context, uint64, uint64) (uint64, error) {
			return 0, &service.Error{Kind: service.KindForbidden, Message: service.MsgTicketNotPaid}
		},
	}, nil)
	rec := call(h.CreateBooking, http.MethodPost, "/booking", `{"roomId":5}`, 7)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, service.MsgTicketNotPaid, errorBody(t, rec))
}

func TestUpdateBooking(t *testing.T) {
	var args [3]uint64
	h := NewBookingHandler(&stubBookings{
		update: func(_ context.Context, userID, roomID, bookingID uint64) (uint64, error) {
			args = [3]uint64{userID, roomID, bookingID}
			return bookingID, nil
		},
	}, nil)

	rec := call(h.UpdateBooking, http.MethodPut, "/booking/3", `{"roomId":9}`, 7, "bookingId", "3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bookingId":3}`, rec.Body.String())
	assert.Equal(t, [3]uint64{7, 9, 3}, args)
}

func TestUpdateBooking_InvalidInput(t *testing.T) {
	h := NewBookingHandler(&stubBookings{}, nil)
	assert.Equal(t, http.StatusBadRequest, call(h.UpdateBooking, http.MethodPut, "/booking/x", `{"roomId":9}`, 7, "bookingId", "x").Code)
	assert.Equal(t, http.StatusBadRequest, call(h.UpdateBooking, http.MethodPut, "/booking/0", `{"roomId":9}`, 7, "bookingId", "0").Code)
	assert.Equal(t, http.StatusBadRequest, call(h.UpdateBooking, http.MethodPut, "/booking/3", `{}`, 7, "bookingId", "3").Code)
}

func TestCreateTicket(t *testing.T) {
	h := NewTicketHandler(&stubTickets{
		create: func(_ context.Context, userID, typeID uint64) (*model.Ticket, error) {
			return &model.Ticket{
				ID: 8, Status: model.TicketStatusReserved, TicketTypeID: typeID, EnrollmentID: 4,
				TicketType: &model.TicketType{ID: typeID, Name: "Presencial", Price: 250, IncludesHotel: true},
			}, nil
		},
	}, nil)

	rec := call(h.CreateTicket, http.MethodPost, "/tickets", `{"ticketTypeId":2}`, 7)
	require.Equal(t, http.StatusCreated, rec.Code)
	var got model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.TicketStatusReserved, got.Status)
	require.NotNil(t, got.TicketType)
	assert.Equal(t, "Presencial", got.TicketType.Name)

	assert.Equal(t, http.StatusBadRequest, call(h.CreateTicket, http.MethodPost, "/tickets", `{}`, 7).Code)
}

func TestCreateTicket_Conflict(t *testing.T) {
	h := NewTicketHandler(&stubTickets{
		create: func(context.Context, uint64, uint64) (*model.Ticket, error) {
			return nil, &service.Error{Kind: service.KindConflict, Message: service.MsgTicketExists}
		},
	}, nil)
	rec := call(h.CreateTicket, http.MethodPost, "/tickets", `{"ticketTypeId":2}`, 7)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetTicketAndTypes(t *testing.T) {
	h := NewTicketHandler(&stubTickets{
		get: func(context.Context, uint64) (*model.Ticket, error) {
			return nil, &service.Error{Kind: service.KindNotFound, Message: service.MsgNotFound}
		},
		list: func(context.Context) ([]model.TicketType, error) { return []model.TicketType{}, nil },
	}, nil)

	assert.Equal(t, http.StatusNotFound, call(h.GetTicket, http.MethodGet, "/tickets", "", 7).Code)

	rec := call(h.ListTicketTypes, http.MethodGet, "/tickets/types", "", 7)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := call(Health, http.MethodGet, "/healthz", "", 0)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

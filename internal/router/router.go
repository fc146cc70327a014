// Package router registers the HTTP routes and their middleware.
package router

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-hotel-booking/internal/handler"
	"github.com/iliyamo/event-hotel-booking/internal/middleware"
)

// Deps collects what Register wires onto the routes.  RateLimit, Cache and
// Logger may be nil.
type Deps struct {
	JWTSecret string
	Sessions  middleware.SessionChecker
	Bookings  *handler.BookingHandler
	Tickets   *handler.TicketHandler
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
	Logger    *slog.Logger
}

// RegisterRoutes registers the unauthenticated health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// Register mounts /booking and /tickets behind JWTAuth.  The rate limiter
// runs after authentication so buckets can be keyed by user; the response
// cache covers only the ticket-type catalog.
func Register(e *echo.Echo, d Deps) {
	RegisterRoutes(e)

	mw := []echo.MiddlewareFunc{middleware.JWTAuth(d.JWTSecret, d.Sessions, d.Logger)}
	if d.RateLimit != nil {
		mw = append(mw, d.RateLimit)
	}

	b := e.Group("/booking", mw...)
	b.GET("", d.Bookings.GetBooking)
	b.POST("", d.Bookings.CreateBooking)
	b.PUT("/:bookingId", d.Bookings.UpdateBooking)

	t := e.Group("/tickets", mw...)
	t.POST("", d.Tickets.CreateTicket)
	t.GET("", d.Tickets.GetTicket)
	if d.Cache != nil {
		t.GET("/types", d.Tickets.ListTicketTypes, d.Cache)
	} else {
		t.GET("/types", d.Tickets.ListTicketTypes)
	}
}

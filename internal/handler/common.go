// Package handler adapts the booking and ticket services to HTTP.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-hotel-booking/internal/service"
)

// getUserID extracts the user_id stored by JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		if t > 0 {
			return t, nil
		}
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil && n > 0 {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// statusFor maps a service error kind to its HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindConflict:
		return http.StatusConflict
	case service.KindPaymentRequired:
		return http.StatusPaymentRequired
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": msg}.  Classified errors carry their
// own message; anything else is logged and hidden behind a 500.
func writeError(c echo.Context, log *slog.Logger, err error) error {
	var se *service.Error
	if errors.As(err, &se) {
		return c.JSON(statusFor(se.Kind), echo.Map{"error": se.Message})
	}
	log.Error("request failed",
		slog.String("method", c.Request().Method),
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

func orDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

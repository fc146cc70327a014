package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionChecker reports whether token is a live session of userID.
type SessionChecker interface {
	Exists(ctx context.Context, userID uint64, token string) (bool, error)
}

// JWTAuth validates an HS256 Bearer token, requires a matching row in the
// session store and stores the numeric subject under "user_id".  A nil
// SessionChecker skips the session lookup.
func JWTAuth(secret string, sessions SessionChecker, logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return unauthorized(c, "invalid token")
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "invalid claims")
			}
			uid, ok := subject(claims)
			if !ok {
				return unauthorized(c, "invalid subject")
			}

			if sessions != nil {
				live, err := sessions.Exists(c.Request().Context(), uid, raw)
				if err != nil {
					logger.Error("session lookup failed",
						slog.Uint64("user_id", uid),
						slog.String("error", err.Error()))
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
				}
				if !live {
					return unauthorized(c, "session not found")
				}
			}

			c.Set("user_id", uid)
			return next(c)
		}
	}
}

// subject reads "sub" as a positive integer.  Numeric subjects are
// accepted alongside the string form.
func subject(claims jwt.MapClaims) (uint64, bool) {
	switch v := claims["sub"].(type) {
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		return n, err == nil && n > 0
	case float64:
		return uint64(v), v >= 1 && v == float64(uint64(v))
	}
	return 0, false
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
}

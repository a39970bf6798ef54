package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/natours/tour-booking-api/internal/api/handler"
	"github.com/natours/tour-booking-api/internal/core/domain"
	"github.com/natours/tour-booking-api/internal/core/ports"
)

const authCookieName = "jwt"

// extractToken reads the credential from the Authorization header first,
// then the jwt cookie. One extraction path for every guard.
func extractToken(c echo.Context) string {
	if auth := c.Request().Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Protect rejects the request unless a valid, non-stale token resolves to a
// live user, which is then attached to the request context.
func Protect(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return domain.ErrNotLoggedIn
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(handler.CurrentUserKey, user)
			return next(c)
		}
	}
}

// IsLoggedIn runs the same verification as Protect but never fails the
// request: any verification failure continues as anonymous. Used by the
// rendered pages to show login state.
func IsLoggedIn(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := extractToken(c); token != "" {
				if user, err := auth.Authenticate(c.Request().Context(), token); err == nil {
					c.Set(handler.CurrentUserKey, user)
				}
			}
			return next(c)
		}
	}
}

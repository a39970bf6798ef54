package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/natours/tour-booking-api/internal/api/handler"
	"github.com/natours/tour-booking-api/internal/core/domain"
)

// RestrictTo enforces role-based access on top of Protect.
func RestrictTo(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := handler.CurrentUser(c)
			if err != nil {
				return err
			}
			if _, ok := allowed[user.Role]; !ok {
				return domain.ErrNotPermitted
			}
			return next(c)
		}
	}
}

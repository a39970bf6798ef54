package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/natours/tour-booking-api/internal/core/domain"
)

// CurrentUserKey is the single context key the authenticated principal
// lives under. The auth middleware sets it; handlers read it through
// CurrentUser only.
const CurrentUserKey = "currentUser"

// CurrentUser returns the authenticated user, or an Unauthorized error when
// the route ran without the protect middleware.
func CurrentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(CurrentUserKey).(*domain.User)
	if user == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return user, nil
}

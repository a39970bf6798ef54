package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/natours/tour-booking-api/internal/core/domain"
	"github.com/natours/tour-booking-api/internal/core/ports"
)

// UserHandler exposes the admin user CRUD plus the self-service /me read.
// Account creation is not served here: signup owns that path because it is
// the only place the password pipeline runs.
type UserHandler struct {
	crud *CRUD[domain.User]
}

func NewUserHandler(repo ports.UserRepository) *UserHandler {
	return &UserHandler{crud: NewCRUD[domain.User](repo)}
}

// Me returns the authenticated user's own record.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// GetAll lists active users. Soft-deleted accounts never appear.
func (h *UserHandler) GetAll() echo.HandlerFunc {
	return h.crud.GetAll(nil)
}

// GetOne fetches one active user by id.
func (h *UserHandler) GetOne() echo.HandlerFunc {
	return h.crud.GetOne()
}

// CreateOne rejects direct creation; accounts only exist through signup.
func (h *UserHandler) CreateOne(c echo.Context) error {
	return domain.Internal("This route is not defined! Please use /signup instead")
}

// UpdateOne applies an admin patch. Password changes do not belong here;
// they go through the password routes.
func (h *UserHandler) UpdateOne() echo.HandlerFunc {
	return h.crud.UpdateOne("password", "passwordConfirm", "passwordResetToken", "passwordTokenExpiresAt")
}

// DeleteOne removes a user permanently.
func (h *UserHandler) DeleteOne() echo.HandlerFunc {
	return h.crud.DeleteOne()
}

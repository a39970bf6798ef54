package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/natours/tour-booking-api/internal/api/metrics"
	"github.com/natours/tour-booking-api/internal/core/ports"
)

const authCookieName = "jwt"

// AuthHandler exposes the account lifecycle endpoints: signup, login,
// logout, password reset and password change. baseURL is the configured
// public origin; mailed links are never derived from the request's Host
// header, which the client controls.
type AuthHandler struct {
	auth         ports.AuthService
	baseURL      string
	cookieTTL    time.Duration
	secureCookie bool
}

func NewAuthHandler(auth ports.AuthService, baseURL string, cookieTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, baseURL: baseURL, cookieTTL: cookieTTL, secureCookie: secureCookie}
}

type signupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

// Signup creates a new account and logs it in.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/users/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	welcomeURL := h.baseURL + "/me"
	token, user, err := h.auth.Signup(c.Request().Context(), ports.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	}, welcomeURL)
	if err != nil {
		return err
	}

	metrics.SignupsTotal.Inc()
	h.setAuthCookie(c, token)
	return respondToken(c, http.StatusCreated, token, user)
}

// Login authenticates email+password and issues a session token.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.setAuthCookie(c, token)
	return respondToken(c, http.StatusOK, token, user)
}

// Logout overwrites the auth cookie with a short-lived dummy value.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /api/v1/users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     authCookieName,
		Value:    "loggedout",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Path:     "/",
	})
	return c.JSON(http.StatusOK, envelope{Status: "success"})
}

// ForgotPassword mails a reset token to the account's address.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/v1/users/forgotPassword [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.auth.ForgotPassword(c.Request().Context(), req.Email, h.baseURL); err != nil {
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("requested").Inc()
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Token sent to email!",
	})
}

// ResetPassword trades the mailed token for a new password.
//
// @Summary      Reset password with a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Plaintext reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  envelope
// @Failure      400    {object}  map[string]string
// @Router       /api/v1/users/resetPassword/{token} [patch]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.auth.ResetPassword(c.Request().Context(), c.Param("token"), req.Password, req.PasswordConfirm)
	if err != nil {
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("completed").Inc()
	h.setAuthCookie(c, token)
	return respondToken(c, http.StatusOK, token, user)
}

// UpdatePassword changes the caller's password after re-verifying the
// current one.
//
// @Summary      Update own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      200   {object}  envelope
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/users/updateMyPassword [patch]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, updated, err := h.auth.UpdatePassword(c.Request().Context(), user.ID.Hex(), req.PasswordCurrent, req.Password, req.PasswordConfirm)
	if err != nil {
		return err
	}

	h.setAuthCookie(c, token)
	return respondToken(c, http.StatusOK, token, updated)
}

func (h *AuthHandler) setAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.cookieTTL),
		HttpOnly: true,
		Secure:   h.secureCookie,
		Path:     "/",
	})
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

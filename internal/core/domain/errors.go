package domain

import (
	"errors"
	"net/http"
)

// Error is an operational error: an anticipated failure carrying an HTTP
// status code and a message that is safe to show to the client. Anything
// that is not an *Error is treated as a programming error by the central
// handler and never shown verbatim in production.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an operational error with an explicit status code.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

func BadRequest(message string) *Error   { return NewError(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return NewError(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return NewError(http.StatusForbidden, message) }
func NotFound(message string) *Error     { return NewError(http.StatusNotFound, message) }
func Conflict(message string) *Error     { return NewError(http.StatusConflict, message) }
func Internal(message string) *Error {
	return NewError(http.StatusInternalServerError, message)
}

// Validation wraps a field-constraint violation as a 400.
func Validation(message string) *Error { return BadRequest("Invalid input data. " + message) }

// Stable errors compared with errors.Is across services, handlers and the
// central error handler.
var (
	// ErrInvalidCredentials keeps a single generic message for both the
	// unknown-email and wrong-password cases to avoid user enumeration.
	// The message text is part of the public API contract.
	ErrInvalidCredentials = Unauthorized("Invalid Email or Pasword")

	ErrNotLoggedIn   = Unauthorized("You are not logged in, Please log in to get access!")
	ErrTokenInvalid  = Unauthorized("Invalid token, Please log in again!")
	ErrTokenExpired  = Unauthorized("Your token has expired! Please login again")
	ErrUserGone      = Unauthorized("The User does not exist!")
	ErrStaleToken    = Unauthorized("User recently changed password! Please log in again.")
	ErrWrongPassword = Unauthorized("Your current password is Wrong, Please Check your password!")
	ErrNotPermitted  = Forbidden("You dont have authority to perform this action!")

	ErrDocumentNotFound = NotFound("No document found with that ID")
	ErrUserNotFound     = NotFound("There is no user with email address.")
	ErrTourNotFound     = NotFound("There is no tour with that name.")

	ErrResetTokenInvalid = BadRequest("Token is invalid or expired")
	ErrPasswordMismatch  = Validation("Password must be same!")

	ErrMailDelivery         = Internal("There was an error sending the email. Try again later!")
	ErrTooManyResetRequests = NewError(http.StatusTooManyRequests,
		"Too many password reset requests, please try again in an hour!")
)

// IsOperational reports whether err carries a safe status and message.
func IsOperational(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

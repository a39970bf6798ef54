package api

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/natours/tour-booking-api/internal/core/domain"
)

// errorResponse is the canonical error envelope. Error and Stack are only
// populated in development.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Resolves operational errors to their status code and safe message,
//     remapping known persistence and token error shapes on the way.
//   - Logs unexpected errors internally; in production the client only sees
//     a generic message.
//   - Answers API paths with JSON and browser paths with the error page.
func NewHTTPErrorHandler(log zerolog.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, operational := resolveError(err)
		if !operational || code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("request failed")
		}

		status := "fail"
		if code >= http.StatusInternalServerError {
			status = "error"
		}
		if !operational && !development {
			msg = "Something went wrong!"
		}

		if !strings.HasPrefix(c.Request().URL.Path, "/api") {
			if renderErr := c.Render(code, "error", map[string]any{
				"title": "Something went wrong!",
				"msg":   msg,
			}); renderErr == nil {
				return
			}
		}

		resp := errorResponse{Status: status, Message: msg}
		if development {
			resp.Error = err.Error()
			resp.Stack = string(debug.Stack())
		}
		_ = c.JSON(code, resp)
	}
}

// resolveError maps err to an HTTP status and a client-safe message, and
// reports whether the error was operational.
func resolveError(err error) (int, string, bool) {
	// Operational errors carry their own status and message.
	if opErr, ok := domain.IsOperational(err); ok {
		return opErr.Code, opErr.Message, true
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), true
	}

	// Safety net for error shapes that escaped point-of-detection mapping.
	switch {
	case mongo.IsDuplicateKeyError(err):
		return http.StatusConflict, "Duplicate field value, please use another value!", true
	case errors.Is(err, mongo.ErrNoDocuments):
		return http.StatusNotFound, domain.ErrDocumentNotFound.Message, true
	case errors.Is(err, jwt.ErrTokenExpired):
		return http.StatusUnauthorized, domain.ErrTokenExpired.Message, true
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrSignatureInvalid):
		return http.StatusUnauthorized, domain.ErrTokenInvalid.Message, true
	}

	return http.StatusInternalServerError, "internal server error", false
}

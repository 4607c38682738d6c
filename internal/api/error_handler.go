package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventzone/eventzone-api/internal/core/domain"
	"github.com/eventzone/eventzone-api/internal/pkg/metrics"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type errorMapping struct {
	target error
	status int
	code   string
	msg    string
}

// Order matters: token errors are checked before the generic ones they may wrap.
var errorMappings = []errorMapping{
	{domain.ErrTokenMissing, http.StatusUnauthorized, "TOKEN_REQUIRED", "authentication required"},
	{domain.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED", "token expired"},
	{domain.ErrTokenBadSignature, http.StatusUnauthorized, "TOKEN_BAD_SIGNATURE", "invalid token signature"},
	{domain.ErrTokenMalformed, http.StatusUnauthorized, "TOKEN_MALFORMED", "malformed token"},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "access forbidden"},
	{domain.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND", "user not found"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"},
	{domain.ErrUserExists, http.StatusConflict, "USER_EXISTS", "user already exists"},
	{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "too many failed login attempts"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT", ""},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and a stable code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<CODE>"}.
//
// Token contents are never echoed back.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		if status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusTooManyRequests {
			metrics.RequestsRejectedTotal.WithLabelValues(body.Code).Inc()
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, rate limiter, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Code: httpCode(he.Code)}
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			msg := m.msg
			if msg == "" {
				msg = err.Error()
			}
			return m.status, errorResponse{Error: msg, Code: m.code}
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}
}

func httpCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	}
	if status >= http.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return "HTTP_ERROR"
}

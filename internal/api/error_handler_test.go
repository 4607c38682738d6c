package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventzone/eventzone-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrUserExists, http.StatusConflict, "USER_EXISTS"},
		{fmt.Errorf("%w: email is required", domain.ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT"},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS"},
		{domain.ErrTokenMissing, http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{fmt.Errorf("%w: bad", domain.ErrTokenMalformed), http.StatusUnauthorized, "TOKEN_MALFORMED"},
		{domain.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{domain.ErrTokenBadSignature, http.StatusUnauthorized, "TOKEN_BAD_SIGNATURE"},
		{fmt.Errorf("%w: missing_role", domain.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("%w: boom", domain.ErrInternalFault), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{errors.New("mongo down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{echo.ErrTooManyRequests, http.StatusTooManyRequests, "RATE_LIMITED"},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)

			h(tt.err, c)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Code != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, body.Code)
			}
		})
	}
}

func TestHTTPErrorHandler_HidesInternalDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("dial tcp 10.0.0.1:27017: refused"), c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error != "internal server error" {
		t.Fatalf("internal detail leaked: %s", body.Error)
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrForbidden, c)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("committed response overwritten: %d", rec.Code)
	}
}

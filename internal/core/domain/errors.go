package domain

import "errors"

// Login and account errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// Token and access errors raised while intercepting a request.
var (
	ErrTokenMissing      = errors.New("token required")
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrForbidden         = errors.New("access forbidden")
)

// ErrInternalFault marks a failure of our own code or infrastructure, as
// opposed to a bad credential supplied by the caller.
var ErrInternalFault = errors.New("internal fault")

// IsTokenError reports whether err is one of the caller-side token failures.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenMissing) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenBadSignature)
}

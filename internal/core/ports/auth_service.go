package ports

import (
	"context"
	"time"

	"github.com/eventzone/eventzone-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// PasswordHasher is the one-way password collaborator.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify returns domain.ErrInvalidCredentials on mismatch.
	Verify(hash, password string) error
}

// TokenMinter issues signed session tokens.
type TokenMinter interface {
	Mint(subject string, roles []string) (string, error)
	TTL() time.Duration
}

// LoginThrottle counts failed logins per identifier.
type LoginThrottle interface {
	Blocked(ctx context.Context, identifier string) (bool, error)
	RecordFailure(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}

package ports

import (
	"context"

	"github.com/eventzone/eventzone-api/internal/core/domain"
)

// CredentialStore looks up stored credentials by login identifier.
// It returns domain.ErrUserNotFound when no record exists.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserRepository adds account creation on top of the lookup.
type UserRepository interface {
	CredentialStore
	// Create returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

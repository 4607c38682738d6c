package ports

import (
	"context"

	"github.com/eventzone/eventzone-api/internal/core/domain"
)

// AuthEventRepository persists the authentication audit trail.
type AuthEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditService processes a single audit event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}

// AuthEventSink accepts audit events without blocking the caller.
type AuthEventSink interface {
	Enqueue(event domain.AuthEvent)
}

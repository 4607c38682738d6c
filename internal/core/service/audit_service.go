package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/eventzone/eventzone-api/internal/core/domain"
	"github.com/eventzone/eventzone-api/internal/core/ports"
	"github.com/eventzone/eventzone-api/internal/pkg/metrics"
)

type auditService struct {
	repo ports.AuthEventRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService writing to repo.
func NewAuditService(repo ports.AuthEventRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists one audit event.
func (s *auditService) Process(ctx context.Context, event domain.AuthEvent) error {
	if event.Type == "" || event.OccurredAt.IsZero() {
		metrics.AuditEventsTotal.WithLabelValues("invalid").Inc()
		return fmt.Errorf("process audit event: %w", domain.ErrInvalidInput)
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("process audit event: insert: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues("stored").Inc()
	s.log.Debug().
		Str("type", string(event.Type)).
		Str("subject", event.Subject).
		Str("reason", event.Reason).
		Msg("audit event stored")

	return nil
}

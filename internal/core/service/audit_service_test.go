package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventzone/eventzone-api/internal/core/domain"
)

type stubEventRepo struct {
	insertErr error
	inserted  []*domain.AuthEvent
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.AuthEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func TestAuditService_Process_Stores(t *testing.T) {
	repo := &stubEventRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	err := svc.Process(context.Background(), domain.AuthEvent{
		ID:         "evt-1",
		Type:       domain.EventLoginSucceeded,
		Subject:    "alice@example.com",
		OccurredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].ID != "evt-1" {
		t.Fatalf("expected event inserted, got %+v", repo.inserted)
	}
}

func TestAuditService_Process_RejectsIncompleteEvent(t *testing.T) {
	repo := &stubEventRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	err := svc.Process(context.Background(), domain.AuthEvent{Subject: "alice@example.com"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("expected nothing inserted")
	}
}

func TestAuditService_Process_InsertError(t *testing.T) {
	repo := &stubEventRepo{insertErr: errors.New("write concern")}
	svc := NewAuditService(repo, zerolog.Nop())

	err := svc.Process(context.Background(), domain.AuthEvent{
		Type:       domain.EventLoginFailed,
		OccurredAt: time.Now(),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

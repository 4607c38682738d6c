package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventzone/eventzone-api/internal/core/domain"
	"github.com/eventzone/eventzone-api/internal/core/ports"
	"github.com/eventzone/eventzone-api/internal/pkg/metrics"
)

// AuthService implements registration and login.
type AuthService struct {
	users     ports.UserRepository
	passwords ports.PasswordHasher
	tokens    ports.TokenMinter
	throttle  ports.LoginThrottle
	audit     ports.AuthEventSink
	log       zerolog.Logger
	now       func() time.Time
}

type AuthOption func(*AuthService)

// WithThrottle enables the failed-login counter.
func WithThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithAuditSink sends login and registration events to sink.
func WithAuditSink(sink ports.AuthEventSink) AuthOption {
	return func(s *AuthService) { s.audit = sink }
}

func WithLogger(log zerolog.Logger) AuthOption {
	return func(s *AuthService) { s.log = log }
}

func NewAuthService(users ports.UserRepository, passwords ports.PasswordHasher, tokens ports.TokenMinter, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a USER account.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	created, err := s.create(ctx, name, email, hash, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	s.record(domain.EventRegistered, created.Email, "")
	return created, nil
}

// EnsureAdmin creates an ADMIN account for email unless one already exists.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, domain.ErrInvalidInput
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return false, err
	}
	if _, err := s.create(ctx, name, email, hash, domain.RoleAdmin); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return false, nil
		}
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	s.log.Info().Str("email", email).Msg("administrator account created")
	return true, nil
}

func (s *AuthService) create(ctx context.Context, name, email, hash string, roles ...string) (*domain.User, error) {
	now := s.now().UTC()
	return s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Roles:        domain.NormalizeRoles(roles),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Login verifies email and password and mints a token carrying the stored
// roles. It fails with domain.ErrUserNotFound, domain.ErrInvalidCredentials
// or domain.ErrTooManyAttempts; nothing is written to the user store.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.blocked(ctx, email) {
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		s.record(domain.EventLoginThrottled, email, "")
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.fail(ctx, email, "user_not_found")
			return "", nil, domain.ErrUserNotFound
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("login: find user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.fail(ctx, email, "bad_credentials")
			return "", nil, domain.ErrInvalidCredentials
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("login: %w", err)
	}

	token, err := s.tokens.Mint(user.Email, user.Roles)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("%w: login: mint token: %v", domain.ErrInternalFault, err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to reset login throttle")
		}
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.record(domain.EventLoginSucceeded, email, "")

	return token, user, nil
}

func (s *AuthService) blocked(ctx context.Context, email string) bool {
	if s.throttle == nil {
		return false
	}
	blocked, err := s.throttle.Blocked(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("login throttle check failed, allowing attempt")
		return false
	}
	return blocked
}

func (s *AuthService) fail(ctx context.Context, email, reason string) {
	metrics.LoginAttemptsTotal.WithLabelValues(reason).Inc()
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to record login failure")
		}
	}
	s.record(domain.EventLoginFailed, email, reason)
}

func (s *AuthService) record(kind domain.AuthEventType, subject, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuthEvent{
		ID:         uuid.NewString(),
		Type:       kind,
		Subject:    subject,
		Reason:     reason,
		OccurredAt: s.now().UTC(),
	})
}

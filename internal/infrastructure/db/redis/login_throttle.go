package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultLockout     = 15 * time.Minute
)

// LoginThrottle counts failed logins per identifier in Redis.
// Key format: login:fail:<identifier>
//
// The counter window starts at the first failure and lasts for the lockout
// period; once it reaches maxAttempts the identifier is blocked until the
// key expires or a successful login resets it.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int64
	lockout     time.Duration
}

// NewLoginThrottle wraps client. Non-positive limits fall back to 5 attempts
// per 15 minutes.
func NewLoginThrottle(client *redis.Client, maxAttempts int64, lockout time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if lockout <= 0 {
		lockout = defaultLockout
	}
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, lockout: lockout}
}

// Blocked reports whether identifier has used up its failed attempts.
func (t *LoginThrottle) Blocked(ctx context.Context, identifier string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(identifier)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login throttle get: %w", err)
	}
	return n >= t.maxAttempts, nil
}

// RecordFailure increments the counter, starting the window on first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, identifier string) error {
	key := t.key(identifier)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("login throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.lockout).Err(); err != nil {
			return fmt.Errorf("login throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, identifier string) error {
	if err := t.client.Del(ctx, t.key(identifier)).Err(); err != nil {
		return fmt.Errorf("login throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(identifier string) string {
	return "login:fail:" + identifier
}

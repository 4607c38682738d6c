package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewLoginThrottle_Defaults(t *testing.T) {
	th := NewLoginThrottle(nil, 0, 0)
	if th.maxAttempts != defaultMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", defaultMaxAttempts, th.maxAttempts)
	}
	if th.lockout != defaultLockout {
		t.Fatalf("expected %s lockout, got %s", defaultLockout, th.lockout)
	}
}

func TestLoginThrottle_Key(t *testing.T) {
	th := NewLoginThrottle(nil, 3, time.Minute)
	if got := th.key("alice@example.com"); got != "login:fail:alice@example.com" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestLoginThrottle_BackendDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	th := NewLoginThrottle(client, 3, time.Minute)
	ctx := context.Background()

	if _, err := th.Blocked(ctx, "alice@example.com"); err == nil {
		t.Fatalf("expected error from unreachable backend")
	}
	if err := th.RecordFailure(ctx, "alice@example.com"); err == nil {
		t.Fatalf("expected error from unreachable backend")
	}
}

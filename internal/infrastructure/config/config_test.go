package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": secret,
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "jwt_token", cfg.Auth.CookieName)
	assert.Equal(t, []string{"/auth/", "/health", "/metrics", "/swagger/", "/css/", "/js/", "/images/", "/favicon.ico"}, cfg.Auth.PublicPaths)
	assert.Equal(t, int64(5), cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 4, cfg.Audit.Workers)
	assert.Equal(t, "eventzone", cfg.Mongo.Database)
	assert.False(t, cfg.AdminEnabled())
	assert.False(t, cfg.Production())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         secret,
		"ENV":                "production",
		"TOKEN_TTL":          "30m",
		"AUTH_COOKIE_SECURE": "true",
		"PUBLIC_PATHS":       "/auth/,/status",
		"ADMIN_EMAIL":        "admin@example.com",
		"ADMIN_PASSWORD":     "changeme123",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.Equal(t, []string{"/auth/", "/status"}, cfg.Auth.PublicPaths)
	assert.True(t, cfg.AdminEnabled())
	assert.Equal(t, "Administrator", cfg.Admin.Name)
}

func TestLoadFrom_SecretRequired(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.Error(t, err)
}

func TestLoadFrom_SecretTooShort(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "short",
	}))
	require.ErrorIs(t, err, ErrSecretTooShort)
}

func TestLoadFrom_InvalidTTL(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": secret,
		"TOKEN_TTL":  "-1h",
	}))
	require.Error(t, err)
}

package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// MinSecretLength mirrors the HS256 key size the token codec enforces.
const MinSecretLength = 32

var ErrSecretTooShort = errors.New("config: JWT_SECRET must be at least 32 bytes")

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Admin AdminConfig
	Audit AuditConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET, required"`
	TokenTTL         time.Duration `env:"TOKEN_TTL, default=10h"`
	TokenIssuer      string        `env:"TOKEN_ISSUER"`
	CookieName       string        `env:"AUTH_COOKIE_NAME, default=jwt_token"`
	CookieSecure     bool          `env:"AUTH_COOKIE_SECURE, default=false"`
	PublicPaths      []string      `env:"PUBLIC_PATHS, default=/auth/,/health,/metrics,/swagger/,/css/,/js/,/images/,/favicon.ico"`
	PolicyFile       string        `env:"ACCESS_POLICY_FILE"`
	MaxLoginAttempts int64         `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginLockout     time.Duration `env:"LOGIN_LOCKOUT, default=15m"`
	LoginRate        float64       `env:"LOGIN_RATE_PER_SECOND, default=5"`
}

// AdminConfig seeds the bootstrap administrator. Both email and password
// must be set for the account to be created.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
	Name     string `env:"ADMIN_NAME, default=Administrator"`
}

type AuditConfig struct {
	Workers   int `env:"AUDIT_WORKERS,    default=4"`
	QueueSize int `env:"AUDIT_QUEUE_SIZE, default=256"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=eventzone"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Production reports whether ENV selects production behaviour (JSON logs).
func (c *Config) Production() bool {
	return c.Env == "production"
}

// AdminEnabled reports whether a bootstrap administrator is configured.
func (c *Config) AdminEnabled() bool {
	return c.Admin.Email != "" && c.Admin.Password != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Auth.JWTSecret) < MinSecretLength {
		return ErrSecretTooShort
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Audit.Workers <= 0 {
		return fmt.Errorf("config: AUDIT_WORKERS must be positive, got %d", c.Audit.Workers)
	}
	if c.Audit.QueueSize <= 0 {
		return fmt.Errorf("config: AUDIT_QUEUE_SIZE must be positive, got %d", c.Audit.QueueSize)
	}
	return nil
}

// Command api is the entry point for the EventZone HTTP API.
//
// Startup sequence: logger, configuration, MongoDB, Redis, indexes,
// bootstrap administrator, HTTP server with graceful shutdown.
//
//	@title						EventZone API
//	@version					1.0
//	@description				Token-based authentication and role-based access for the EventZone platform.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventzone/eventzone-api/internal/api"
	"github.com/eventzone/eventzone-api/internal/api/handler"
	"github.com/eventzone/eventzone-api/internal/api/middleware"
	"github.com/eventzone/eventzone-api/internal/core/service"
	"github.com/eventzone/eventzone-api/internal/infrastructure/config"
	mongostore "github.com/eventzone/eventzone-api/internal/infrastructure/db/mongo"
	redisstore "github.com/eventzone/eventzone-api/internal/infrastructure/db/redis"
	"github.com/eventzone/eventzone-api/internal/infrastructure/http/handlers"
	"github.com/eventzone/eventzone-api/internal/infrastructure/queue"
	"github.com/eventzone/eventzone-api/internal/security/password"
	"github.com/eventzone/eventzone-api/internal/security/policy"
	"github.com/eventzone/eventzone-api/internal/security/token"
	"github.com/eventzone/eventzone-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger level depends on config; fall back to a bare one.
		boot := logger.Init(logger.Options{Service: "eventzone-api"})
		boot.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "eventzone-api",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("configuration loaded")

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("api stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// --- Stores ---
	mongoClient, db, err := mongostore.Connect(startupCtx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisstore.Connect(startupCtx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()

	users := mongostore.NewUserRepository(db)
	if err := users.EnsureIndexes(startupCtx); err != nil {
		return err
	}
	if err := mongostore.EnsureAuthEventIndexes(startupCtx, db); err != nil {
		return err
	}

	// --- Security ---
	codecOpts := []token.Option{}
	if cfg.Auth.TokenIssuer != "" {
		codecOpts = append(codecOpts, token.WithIssuer(cfg.Auth.TokenIssuer))
	}
	codec, err := token.NewCodec([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL, codecOpts...)
	if err != nil {
		return err
	}

	public := middleware.PublicPaths(cfg.Auth.PublicPaths)
	rules := policy.DefaultRules(public)
	if cfg.Auth.PolicyFile != "" {
		if rules, err = policy.LoadFile(cfg.Auth.PolicyFile); err != nil {
			return err
		}
		log.Info().Str("file", cfg.Auth.PolicyFile).Int("rules", len(rules)).Msg("access policy loaded")
	}
	accessPolicy, err := policy.New(rules...)
	if err != nil {
		return err
	}

	// --- Audit trail ---
	auditSvc := service.NewAuditService(mongostore.NewAuthEventRepository(db), logger.Component("audit"))
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, cfg.Audit.QueueSize, auditSvc, logger.Component("audit"))
	// Workers outlive the signal context; the deferred Stop runs after the
	// HTTP server has drained and before the Mongo client disconnects.
	dispatcher.Start(context.WithoutCancel(ctx))
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := dispatcher.Stop(stopCtx); err != nil {
			log.Error().Err(err).Msg("audit dispatcher stop")
		}
	}()

	// --- Services ---
	authSvc := service.NewAuthService(users, password.NewBcrypt(bcrypt.DefaultCost), codec,
		service.WithThrottle(redisstore.NewLoginThrottle(rdb, cfg.Auth.MaxLoginAttempts, cfg.Auth.LoginLockout)),
		service.WithAuditSink(dispatcher),
		service.WithLogger(logger.Component("auth")),
	)

	if cfg.AdminEnabled() {
		created, err := authSvc.EnsureAdmin(startupCtx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return err
		}
		log.Info().Bool("created", created).Str("email", cfg.Admin.Email).Msg("administrator ensured")
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		AuthService: authSvc,
		Decoder:     codec,
		Policy:      accessPolicy,
		Public:      public,
		Cookie: handler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			TTL:    codec.TTL(),
			Secure: cfg.Auth.CookieSecure,
		},
		LoginRate: cfg.Auth.LoginRate,
		Checkers:  []handlers.Checker{handlers.MongoChecker(db), handlers.RedisChecker(rdb)},
		Registry:  prometheus.NewRegistry(),
		Log:       logger.Component("http"),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("server stopped")
	return nil
}

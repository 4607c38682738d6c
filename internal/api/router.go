package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/eventzone/eventzone-api/docs"
	"github.com/eventzone/eventzone-api/internal/api/handler"
	"github.com/eventzone/eventzone-api/internal/api/middleware"
	"github.com/eventzone/eventzone-api/internal/core/ports"
	"github.com/eventzone/eventzone-api/internal/infrastructure/http/handlers"
	"github.com/eventzone/eventzone-api/internal/security/policy"
)

// Dependencies carries everything the HTTP layer needs.
type Dependencies struct {
	AuthService ports.AuthService
	Decoder     middleware.TokenDecoder
	Policy      *policy.Policy
	Public      middleware.PublicPaths
	Cookie      handler.CookieConfig
	// LoginRate limits /auth requests per client IP; zero disables it.
	LoginRate float64
	Checkers  []handlers.Checker
	// Registry receives the HTTP request metrics. A fresh registry is used
	// when nil.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: reg,
	}))

	// --- Authentication then access policy, on every request ---
	e.Use(middleware.Authenticate(middleware.AuthConfig{
		Decoder:    deps.Decoder,
		Public:     deps.Public,
		CookieName: deps.Cookie.Name,
		Log:        deps.Log,
	}))
	e.Use(middleware.Authorize(deps.Policy))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Cookie)
	auth := e.Group("/auth")
	if deps.LoginRate > 0 {
		auth.Use(loginRateLimiter(deps.LoginRate))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	// --- Principal-scoped routes ---
	principalHandler := handler.NewPrincipalHandler()
	e.GET("/users/me", principalHandler.Me)
	e.GET("/admin/panel", principalHandler.AdminPanel)
	e.GET("/user/dashboard", principalHandler.UserDashboard)

	// --- Health probes, metrics and docs ---
	healthHandler := handlers.NewHealthHandler(deps.Checkers...)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

func loginRateLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
	})
}

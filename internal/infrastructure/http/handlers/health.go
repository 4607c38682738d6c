package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Checker probes a single dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthHandler serves GET /health (liveness) and GET /health/ready (readiness).
type HealthHandler struct {
	checkers []Checker
	timeout  time.Duration
}

func NewHealthHandler(checkers ...Checker) *HealthHandler {
	return &HealthHandler{checkers: checkers, timeout: 3 * time.Second}
}

// Liveness returns 200 immediately; the process is alive.
//
// @Summary  Liveness probe
// @Tags     health
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness checks every dependency and reports 503 if any is down.
//
// @Summary  Readiness probe
// @Tags     health
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	checkers := append([]Checker(nil), h.checkers...)
	sort.Slice(checkers, func(i, j int) bool { return checkers[i].Name() < checkers[j].Name() })

	deps := make(map[string]dependencyStatus, len(checkers))
	healthy := true
	for _, ch := range checkers {
		if err := ch.Check(ctx); err != nil {
			deps[ch.Name()] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[ch.Name()] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}

type mongoChecker struct{ db *mongo.Database }

// MongoChecker pings the server and runs a command against the database.
func MongoChecker(db *mongo.Database) Checker { return mongoChecker{db: db} }

func (m mongoChecker) Name() string { return "mongodb" }

func (m mongoChecker) Check(ctx context.Context) error {
	if err := m.db.Client().Ping(ctx, nil); err != nil {
		return err
	}
	return m.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

type redisChecker struct{ rdb *redis.Client }

func RedisChecker(rdb *redis.Client) Checker { return redisChecker{rdb: rdb} }

func (r redisChecker) Name() string { return "redis" }

func (r redisChecker) Check(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

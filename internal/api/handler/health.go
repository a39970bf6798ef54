package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const probeTimeout = 3 * time.Second

// HealthHandler exposes the liveness and readiness probes. Liveness only
// confirms the process answers; readiness pings MongoDB and Redis.
type HealthHandler struct {
	mongo *mongo.Database
	redis *redis.Client
}

func NewHealthHandler(db *mongo.Database, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{mongo: db, redis: rdb}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type probeResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	deps := map[string]probeResult{
		"mongodb": h.probe(func() error { return h.mongo.Client().Ping(ctx, nil) }),
		"redis":   h.probe(func() error { return h.redis.Ping(ctx).Err() }),
	}

	status, code := "ok", http.StatusOK
	for _, dep := range deps {
		if dep.Status != "ok" {
			status, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	return c.JSON(code, map[string]any{
		"status":       status,
		"dependencies": deps,
	})
}

func (h *HealthHandler) probe(ping func() error) probeResult {
	if err := ping(); err != nil {
		return probeResult{Status: "unhealthy", Error: err.Error()}
	}
	return probeResult{Status: "ok"}
}

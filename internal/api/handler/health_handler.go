package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Pinger is a dependency the readiness check pings.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health (liveness) and GET /health/ready (readiness).
type HealthHandler struct {
	log     zerolog.Logger
	deps    []Pinger
	timeout time.Duration
}

func NewHealthHandler(log zerolog.Logger, deps ...Pinger) *HealthHandler {
	return &HealthHandler{log: log, deps: deps, timeout: 3 * time.Second}
}

// Liveness returns 200 immediately; it confirms the process is alive.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

type dependencyStatus struct {
	Status string `json:"status"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness pings every dependency and answers 503 if any is down. Ping
// errors are logged, never returned to the caller.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.deps))
	healthy := true

	for _, d := range h.deps {
		if err := d.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", d.Name()).Msg("readiness check failed")
			deps[d.Name()] = dependencyStatus{Status: "unhealthy"}
			healthy = false
			continue
		}
		deps[d.Name()] = dependencyStatus{Status: "ok"}
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

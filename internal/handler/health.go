package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/musician-api/internal/middleware"
	"github.com/deppfellow/musician-api/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler exposes GET /status, the dependency report used by load
// balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckResponse is the outcome of one dependency check.
type CheckResponse struct {
	Status       string `json:"status"`
	Required     bool   `json:"required"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Status      string                   `json:"status"`
	Timestamp   time.Time                `json:"timestamp"`
	Environment string                   `json:"environment"`
	Store       string                   `json:"store"`
	Checks      map[string]CheckResponse `json:"checks"`
}

// CheckHealth runs every configured dependency check.
//
// It returns 200 when all required checks pass and 503 otherwise.
// Optional checks (e.g. Redis for jobs) are reported but never fail the
// endpoint.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := StatusResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Store:       h.server.Config.Store.Driver,
		Checks:      make(map[string]CheckResponse),
	}

	timeout := 5 * time.Second
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		timeout = obs.HealthChecks.Timeout
	}

	results := server.RunHealthChecks(c.Request().Context(), h.server.HealthChecks(), timeout)

	isHealthy := true
	for _, result := range results {
		check := CheckResponse{
			Status:       "healthy",
			Required:     result.Required,
			ResponseTime: result.Duration.String(),
		}

		if !result.Healthy() {
			check.Status = "unhealthy"
			check.Error = result.Err.Error()

			if result.Required {
				isHealthy = false
			}

			logger.Error().
				Err(result.Err).
				Str("check", result.Name).
				Bool("required", result.Required).
				Dur("response_time", result.Duration).
				Msg("health check failed")

			h.server.RecordHealthCheckError("health_check", result)
		}

		response.Checks[result.Name] = check
	}

	if !isHealthy {
		response.Status = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("service unhealthy")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck is one dependency probe.
type HealthCheck func(ctx context.Context) error

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type HealthHandler struct {
	service string
	version string
	checks  map[string]HealthCheck
}

func NewHealthHandler(service, version string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{service: service, version: version, checks: checks}
}

func (h *HealthHandler) response(status string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Service:   h.service,
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Liveness reports that the process is serving requests
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, h.response("ok"))
}

// Readiness pings every dependency
// @Summary Dependency health check
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse
// @Failure 503 {object} handlers.HealthResponse
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	resp := h.response("ok")
	resp.Checks = make(map[string]string, len(h.checks))
	status := http.StatusOK

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = "unhealthy: " + err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "healthy"
	}

	c.JSON(status, resp)
}

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/engramhq/engramview/client"
	"github.com/engramhq/engramview/internal/ws"
)

// backendProbeTimeout bounds the readiness probe against the memory backend.
const backendProbeTimeout = 2 * time.Second

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	backend   *client.Client
	hub       *ws.Hub
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
func NewHealthHandler(backend *client.Client, hub *ws.Hub, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		backend:   backend,
		hub:       hub,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

// healthResponse is the JSON payload returned by the liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       h.version,
		WSClients:     h.hub.ClientCount(),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Readiness handles GET /api/v1/ready by probing the memory backend.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"backend": "ok"}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), backendProbeTimeout)
	defer cancel()

	if _, err := h.backend.Health(ctx); err != nil {
		h.log.WithError(err).Warn("backend health probe failed")
		checks["backend"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	resp := readinessResponse{Status: "ready", Checks: checks}
	if status != http.StatusOK {
		resp.Status = "degraded"
	}

	c.JSON(status, resp)
}

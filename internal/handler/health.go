package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/pkg/health"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthHandler struct {
	monitor *health.Monitor
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

func NewHealthHandler(monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// HealthCheck pings every dependency. Only required ones turn the answer into 503.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.HealthCheckTimeout)
	defer cancel()

	results := h.monitor.CheckAll(ctx)

	response := HealthCheckResponse{
		Status:    "healthy",
		Version:   constants.AppVersion,
		Timestamp: time.Now(),
		Checks:    make(map[string]HealthCheck, len(results)),
	}

	for name, r := range results {
		check := HealthCheck{Status: r.Status.String()}
		if r.LastError != nil {
			check.Message = r.LastError.Error()
		}
		if r.Latency > 0 {
			check.Latency = r.Latency.String()
		}
		response.Checks[name] = check
	}

	statusCode := http.StatusOK
	if !health.Healthy(results) {
		response.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	logger.GetLogger().Debug("Health check performed",
		zap.String("overall_status", response.Status),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, response)
}

// Healthcheck is the versioned liveness probe answering with the success envelope
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	respond(c, http.StatusOK, nil, constants.MsgHealthy)
}

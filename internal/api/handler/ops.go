// Package handler provides HTTP handlers for the AirVigil API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/airvigil/airvigil/internal/api/models"
	"github.com/airvigil/airvigil/internal/api/response"
)

// ReadinessCheckFunc reports whether one dependency is ready.
type ReadinessCheckFunc func(ctx context.Context) error

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	checks    map[string]ReadinessCheckFunc
}

// NewOpsHandler creates a new OpsHandler. checks maps a dependency name to
// its readiness probe; a nil map means the process is always ready.
func NewOpsHandler(version, buildTime string, checks map[string]ReadinessCheckFunc) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		checks:    checks,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Returns 503
// when any dependency probe fails.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	readiness := models.Readiness{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	for name, check := range h.checks {
		status := models.SubsystemStatus{Name: name, Status: models.HealthStatusOK}
		if err := check(ctx); err != nil {
			detail := err.Error()
			status.Status = models.HealthStatusFail
			status.Detail = &detail
			readiness.Status = models.HealthStatusFail
		}
		readiness.Subsystems = append(readiness.Subsystems, status)
	}

	code := http.StatusOK
	if readiness.Status != models.HealthStatusOK {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, readiness)
}

package api

import (
	"net/http"
	"time"

	"github.com/agleymelo/daily-diet-api/internal/api/respond"
)

// HealthReporter exposes cached service health (see health.ServiceHealthChecker).
type HealthReporter interface {
	IsHealthy() bool
	Components() map[string]bool
}

type HealthHandler struct {
	health HealthReporter
}

func NewHealthHandler(h HealthReporter) *HealthHandler { return &HealthHandler{health: h} }

// CheckHealth handles GET /api/health: 200 when every component is up, 503 otherwise.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "UP", http.StatusOK
	var components map[string]bool
	if h.health != nil {
		components = h.health.Components()
		if !h.health.IsHealthy() {
			status, code = "DOWN", http.StatusServiceUnavailable
		}
	}
	respond.WriteJSON(w, code, map[string]interface{}{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

package api

import (
	"net/http"
	"time"

	"github.com/remindly/remindly-server/internal/api/respond"
)

// HealthHandler handles the public health endpoint.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// serviceIsHealthy is injected by run.go; until then the service reports
// unhealthy.
var serviceIsHealthy = func() bool { return false }

// BindServiceHealth lets run.go wire the aggregated health flag in.
func BindServiceHealth(f func() bool) { serviceIsHealthy = f }

// CheckHealth handles GET /api/health. Always 200; the body carries the
// healthy/unhealthy verdict.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if serviceIsHealthy() {
		status = "healthy"
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	DurationMs int64        `json:"duration_ms"`
}

// Check pings one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

// NewHealthHandler reports on every named check. Optional dependencies are
// simply left out of checks when not configured.
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// pingHandler → just says service is up
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// healthCheckHandler → checks every dependency
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:     HealthHealthy,
		Components: make(map[string]CheckEntry, len(h.checks)),
	}
	for name, check := range h.checks {
		start := time.Now()
		err := check(ctx)
		entry := CheckEntry{
			Status:     HealthHealthy,
			CheckedAt:  time.Now(),
			DurationMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			entry.Status = HealthUnhealthy
			entry.Message = err.Error()
			resp.Status = HealthUnhealthy
		}
		resp.Components[name] = entry
	}
	resp.CheckedAt = time.Now()

	statusCode := http.StatusOK
	if resp.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeHealthJSON(w, statusCode, resp)
}

func writeHealthJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package handlers

import (
	"context"
	"net/http"
	"time"
)

const healthProbeTimeout = 2 * time.Second

// Pinger is anything the health check can probe.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthCheck names one dependency reported by /health.
type HealthCheck struct {
	Name  string
	Pinger Pinger
}

// NewHealthHandler returns GET /health handler. Every check is probed; any
// failure turns the response into 503 with the failing names marked.
func NewHealthHandler(checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{"status": "ok"}
		status := http.StatusOK
		for _, check := range checks {
			if check.Pinger == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
			err := check.Pinger.PingContext(ctx)
			cancel()
			if err != nil {
				body[check.Name] = "unreachable"
				body["status"] = "degraded"
				status = http.StatusServiceUnavailable
			}
		}
		writeJSON(w, status, body)
	}
}

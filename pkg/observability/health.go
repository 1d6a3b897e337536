package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Pinger is implemented by storage backends that can report connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker provides liveness and readiness probes
type HealthChecker struct {
	store     Pinger
	startedAt time.Time
}

// NewHealthChecker creates a new health checker over the given storage backend
func NewHealthChecker(store Pinger) *HealthChecker {
	return &HealthChecker{
		store:     store,
		startedAt: time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Uptime       string                      `json:"uptime,omitempty"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Liveness is a simple liveness probe; it returns 200 whenever the process
// is serving requests.
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Uptime:    time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}

// Readiness checks the storage backend and returns 503 when it is unreachable
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyStatus),
	}

	start := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		status.Status = StatusUnhealthy
		status.Dependencies["storage"] = DependencyStatus{
			Status:  StatusUnhealthy,
			Message: err.Error(),
			Latency: time.Since(start).String(),
		}
		writeHealth(w, http.StatusServiceUnavailable, status)
		return
	}

	status.Dependencies["storage"] = DependencyStatus{
		Status:  StatusHealthy,
		Latency: time.Since(start).String(),
	}
	writeHealth(w, http.StatusOK, status)
}

func writeHealth(w http.ResponseWriter, code int, status HealthStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

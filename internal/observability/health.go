package observability

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"kitchen_dashboard/internal/config"
)

// HealthStatus is the state reported for the dashboard or one of its dependencies
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Probe checks one dependency. Unhealthy probes fail readiness; degraded ones
// only show up on /health.
type Probe struct {
	Name  string
	Check func(ctx context.Context) (HealthStatus, string, error)
}

// CheckResult is the outcome of one probe
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Latency string       `json:"latency"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime"`
	Checks  map[string]CheckResult `json:"checks"`
}

var (
	startTime = time.Now()
	version   = "dev"
)

// SetVersion sets the version reported by /health
func SetVersion(v string) {
	version = v
}

// Health serves the health, readiness and liveness endpoints over a fixed set of probes
type Health struct {
	logger  *slog.Logger
	timeout time.Duration
	probes  []Probe
}

// NewHealth creates a Health with a per-request probe timeout (5s when zero)
func NewHealth(logger *slog.Logger, timeout time.Duration, probes ...Probe) *Health {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Health{logger: logger, timeout: timeout, probes: probes}
}

// Add registers another probe
func (h *Health) Add(p Probe) {
	h.probes = append(h.probes, p)
}

// check runs every probe and folds their states into one, worst wins
func (h *Health) check(ctx context.Context) (HealthStatus, map[string]CheckResult) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	overall := StatusHealthy
	results := make(map[string]CheckResult, len(h.probes))
	for _, p := range h.probes {
		start := time.Now()
		status, message, err := p.Check(ctx)

		res := CheckResult{Status: status, Message: message, Latency: time.Since(start).String()}
		if err != nil {
			res.Error = err.Error()
			res.Status = StatusUnhealthy
		}
		results[p.Name] = res

		switch {
		case res.Status == StatusUnhealthy:
			overall = StatusUnhealthy
		case res.Status == StatusDegraded && overall == StatusHealthy:
			overall = StatusDegraded
		}
	}
	return overall, results
}

// Handler serves GET /health: 200 when healthy or degraded, 503 otherwise
func (h *Health) Handler(w http.ResponseWriter, r *http.Request) {
	status, results := h.check(r.Context())
	h.logger.Debug("health check performed", "status", status, "checks", len(results))

	code := http.StatusOK
	if status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	config.RespondJSON(w, code, HealthResponse{
		Status:  status,
		Version: version,
		Uptime:  time.Since(startTime).Round(time.Second).String(),
		Checks:  results,
	})
}

// Ready serves GET /ready for load balancers
func (h *Health) Ready(w http.ResponseWriter, r *http.Request) {
	status, results := h.check(r.Context())
	ready := status != StatusUnhealthy

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
		h.logger.Warn("readiness check failed", "checks", results)
	}
	config.RespondJSON(w, code, map[string]any{"ready": ready, "checks": results})
}

// Live serves GET /live; it never touches dependencies
func (h *Health) Live(w http.ResponseWriter, r *http.Request) {
	config.RespondJSON(w, http.StatusOK, map[string]any{
		"alive":  true,
		"uptime": time.Since(startTime).Round(time.Second).String(),
	})
}

// DatabaseProbe pings the notifications database
func DatabaseProbe(ping func(context.Context) error) Probe {
	return Probe{Name: "database", Check: func(ctx context.Context) (HealthStatus, string, error) {
		if err := ping(ctx); err != nil {
			return StatusUnhealthy, "Database connection failed", err
		}
		return StatusHealthy, "Database is healthy", nil
	}}
}

// CacheProbe checks the session cache. A fallback cache running on memory
// only reports degraded.
func CacheProbe(ping func(context.Context) error, usingPrimary func() bool) Probe {
	return Probe{Name: "session_cache", Check: func(ctx context.Context) (HealthStatus, string, error) {
		if err := ping(ctx); err != nil {
			return StatusUnhealthy, "Cache connection failed", err
		}
		if usingPrimary != nil && !usingPrimary() {
			return StatusDegraded, "Redis unavailable, sessions held in memory", nil
		}
		return StatusHealthy, "Cache is healthy", nil
	}}
}

// CredentialsProbe reports degraded while required API credentials are missing
func CredentialsProbe(allRequired func(context.Context) (bool, error)) Probe {
	return Probe{Name: "integrations", Check: func(ctx context.Context) (HealthStatus, string, error) {
		ok, err := allRequired(ctx)
		if err != nil {
			return StatusUnhealthy, "Configuration status unavailable", err
		}
		if !ok {
			return StatusDegraded, "Required API credentials missing", nil
		}
		return StatusHealthy, "All required API credentials configured", nil
	}}
}

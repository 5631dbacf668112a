package middlewares

import (
	"log/slog"
	"net/http"
	"slices"
	"time"
)

// TimeoutConfig holds configuration for timeout middleware
type TimeoutConfig struct {
	// Logger for structured logging (optional, uses slog.Default if nil)
	Logger *slog.Logger

	// Timeout duration for requests
	// Default: 10 seconds
	Timeout time.Duration

	// Message returned with 503 when the handler runs out of time
	Message string

	// SkipTimeoutForPaths defines paths that should not have timeout applied
	SkipTimeoutForPaths []string
}

// DefaultTimeoutConfig returns a default timeout configuration
func DefaultTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		Timeout:             10 * time.Second,
		Message:             "Request timeout",
		SkipTimeoutForPaths: []string{"/metrics"},
	}
}

// Timeout bounds handler execution. The request context carries the deadline so
// cache and database calls stop with it.
func Timeout(config *TimeoutConfig) func(next http.Handler) http.Handler {
	if config == nil {
		config = DefaultTimeoutConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Message == "" {
		config.Message = "Request timeout"
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("timeout middleware initialized",
		"timeout", config.Timeout.String(),
		"skip_paths_count", len(config.SkipTimeoutForPaths),
	)

	return func(next http.Handler) http.Handler {
		bounded := http.TimeoutHandler(next, config.Timeout, config.Message)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(config.SkipTimeoutForPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			bounded.ServeHTTP(w, r)
		})
	}
}

package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"kitchen_dashboard/internal/config"
	"kitchen_dashboard/internal/observability"
)

// RecoveryConfig holds configuration for recovery middleware
type RecoveryConfig struct {
	// Logger for structured logging (optional, uses slog.Default if nil)
	Logger *slog.Logger

	// DisableStackTrace disables stack trace in panic recovery
	DisableStackTrace bool

	// Recovery function that handles the panic
	RecoveryHandler func(w http.ResponseWriter, r *http.Request, err any, stack []byte)

	// Development mode provides more detailed error responses
	Development bool
}

// DefaultRecoveryConfig returns a default recovery configuration
func DefaultRecoveryConfig() *RecoveryConfig {
	return &RecoveryConfig{
		RecoveryHandler: defaultRecoveryHandler,
	}
}

// defaultRecoveryHandler answers JSON for API routes and plain text for pages and fragments
func defaultRecoveryHandler(w http.ResponseWriter, r *http.Request, err any, stack []byte) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		config.RespondJSON(w, http.StatusInternalServerError, map[string]any{
			"error":      "Internal Server Error",
			"message":    "An unexpected error occurred. Please try again later.",
			"request_id": observability.GetRequestID(r.Context()),
		})
		return
	}
	http.Error(w, "Something went wrong in the kitchen. Please reload the page.", http.StatusInternalServerError)
}

// developmentRecoveryHandler provides detailed error information for development
func developmentRecoveryHandler(w http.ResponseWriter, r *http.Request, err any, stack []byte) {
	config.RespondJSON(w, http.StatusInternalServerError, map[string]any{
		"error":      "Internal Server Error",
		"message":    fmt.Sprintf("Panic: %v", err),
		"stack":      string(stack),
		"method":     r.Method,
		"path":       r.URL.Path,
		"timestamp":  time.Now().Format(time.RFC3339),
		"request_id": observability.GetRequestID(r.Context()),
	})
}

// Recovery returns a recovery middleware that recovers from panics
func Recovery(cfg *RecoveryConfig) func(next http.Handler) http.Handler {
	if cfg == nil {
		cfg = DefaultRecoveryConfig()
	}

	if cfg.RecoveryHandler == nil {
		if cfg.Development {
			cfg.RecoveryHandler = developmentRecoveryHandler
		} else {
			cfg.RecoveryHandler = defaultRecoveryHandler
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("recovery middleware initialized",
		"development", cfg.Development,
		"disable_stack_trace", cfg.DisableStackTrace,
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				var stack []byte
				if !cfg.DisableStackTrace {
					stack = debug.Stack()
				}

				logAttrs := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"client_ip", getClientIP(r),
					"user_agent", r.UserAgent(),
					"error", fmt.Sprintf("%v", err),
				}
				if requestID := observability.GetRequestID(r.Context()); requestID != "" {
					logAttrs = append(logAttrs, "request_id", requestID)
				}
				if !cfg.DisableStackTrace {
					logAttrs = append(logAttrs, "stack", string(stack))
				}

				logger.Error("panic recovered", logAttrs...)
				cfg.RecoveryHandler(w, r, err, stack)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

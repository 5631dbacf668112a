package middlewares

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"kitchen_dashboard/internal/observability"
)

// responseWriter wraps http.ResponseWriter to capture response details for logging
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

// WriteHeader captures the status code for logging
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the response size for logging
func (rw *responseWriter) Write(data []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(data)
	rw.bytesWritten += int64(n)
	return n, err
}

// Hijack implements the http.Hijacker interface
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("the ResponseWriter doesn't support Hijacker")
	}
	return hijacker.Hijack()
}

// LoggerConfig holds configuration options for the HTTP request logger middleware
type LoggerConfig struct {
	Logger             *slog.Logger // Structured logger instance
	SkipPaths          []string     // Paths to skip logging (e.g., health checks)
	IncludeUserAgent   bool         // Whether to include User-Agent header
	IncludeQueryParams bool         // Whether to include query parameters
	IncludeHTMX        bool         // Whether to tag htmx-initiated requests
}

// DefaultLoggerConfig creates a logger configuration with sensible defaults
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Logger:             slog.Default(),
		SkipPaths:          []string{"/health", "/live", "/ready", "/metrics", "/favicon.ico"},
		IncludeUserAgent:   true,
		IncludeQueryParams: true,
		IncludeHTMX:        true,
	}
}

// Logger creates an HTTP logging middleware that captures request/response details
func Logger(config *LoggerConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(config.SkipPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			startTime := time.Now()
			wrappedWriter := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrappedWriter, r)

			logFields := buildLogFields(r, wrappedWriter, time.Since(startTime), config)
			logRequest(config.Logger, wrappedWriter.statusCode, logFields)
		})
	}
}

// buildLogFields creates structured log fields from request and response data
func buildLogFields(r *http.Request, rw *responseWriter, duration time.Duration, config *LoggerConfig) []any {
	fields := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", rw.statusCode,
		"latency_ms", duration.Milliseconds(),
		"client_ip", getClientIP(r),
		"response_size", rw.bytesWritten,
	}

	if requestID := observability.GetRequestID(r.Context()); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	if config.IncludeQueryParams && len(r.URL.RawQuery) > 0 {
		fields = append(fields, "query", r.URL.RawQuery)
	}

	if config.IncludeUserAgent {
		if userAgent := r.Header.Get("User-Agent"); userAgent != "" {
			fields = append(fields, "user_agent", userAgent)
		}
	}

	if config.IncludeHTMX && r.Header.Get("HX-Request") == "true" {
		fields = append(fields, "htmx", true)
	}

	return fields
}

// logRequest logs the request with appropriate level based on status code
func logRequest(logger *slog.Logger, statusCode int, fields []any) {
	switch {
	case statusCode >= 500:
		logger.Error("server error", fields...)
	case statusCode >= 400:
		logger.Warn("client error", fields...)
	default:
		logger.Info("request handled", fields...)
	}
}

// getClientIP extracts the client address, preferring proxy headers
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

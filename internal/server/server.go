package server

import (
	"log/slog"
	"net/http"
	"time"
)

// Config holds HTTP server configuration
type Config struct {
	// Server address (host:port)
	Addr string

	// Logger for structured logging
	Logger *slog.Logger

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration

	// ReadHeaderTimeout bounds header reads
	ReadHeaderTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration

	// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
	MaxHeaderBytes int

	// TLS certificate files; nil serves plain HTTP
	TLS *TLSFiles

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration
}

// TLSFiles names the certificate and key served over HTTPS
type TLSFiles struct {
	CertFile string
	KeyFile  string
}

// DefaultConfig returns a default server configuration
func DefaultConfig(addr string) *Config {
	return &Config{
		Addr:              addr,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
		ShutdownTimeout:   30 * time.Second,
	}
}

// ProductionConfig returns a production-optimized server configuration
func ProductionConfig(addr string) *Config {
	cfg := DefaultConfig(addr)
	cfg.ReadTimeout = 10 * time.Second
	cfg.IdleTimeout = 120 * time.Second
	return cfg
}

// New creates a new HTTP server with the given configuration
func New(handler http.Handler, config *Config) *http.Server {
	if config == nil {
		config = DefaultConfig(":8080")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := &http.Server{
		Addr:              config.Addr,
		Handler:           handler,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
		MaxHeaderBytes:    config.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("http server configured",
		"addr", config.Addr,
		"read_timeout", config.ReadTimeout.String(),
		"write_timeout", config.WriteTimeout.String(),
		"idle_timeout", config.IdleTimeout.String(),
		"tls", config.TLS != nil,
	)

	return server
}

// Start serves handler until a shutdown signal, then closes the server and resources
func Start(handler http.Handler, config *Config, resources []Resource) error {
	if config == nil {
		config = DefaultConfig(":8080")
	}

	srv := New(handler, config)
	sm := NewShutdownManager(config.Logger, config.ShutdownTimeout)
	if err := run(srv, config.TLS, resources, sm); err != nil {
		return err
	}
	sm.logger.Info("shutdown complete")
	return nil
}

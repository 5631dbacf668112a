package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"kitchen_dashboard/internal/cache"
)

// Resource is something the dashboard closes on the way down
type Resource struct {
	Name  string
	Close func(ctx context.Context) error
}

// HTTPServerResource drains in-flight requests
func HTTPServerResource(srv *http.Server) Resource {
	return Resource{Name: "http-server", Close: srv.Shutdown}
}

// DatabaseResource closes the notifications pool. pgxpool.Close blocks until
// connections are returned, so waiting stops when ctx ends.
func DatabaseResource(pool *pgxpool.Pool) Resource {
	return Resource{Name: "database", Close: func(ctx context.Context) error {
		done := make(chan struct{})
		go func() {
			pool.Close()
			close(done)
		}()

		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}}
}

// CacheResource closes the session cache (Redis client and memory janitor)
func CacheResource(name string, c cache.Cache) Resource {
	return Resource{Name: name, Close: func(context.Context) error { return c.Close() }}
}

// ShutdownManager closes registered resources once the process is asked to stop
type ShutdownManager struct {
	logger    *slog.Logger
	timeout   time.Duration
	signals   []os.Signal
	mu        sync.Mutex
	resources []Resource
}

// NewShutdownManager creates a manager that waits for SIGINT, SIGTERM or SIGQUIT
// and gives resources timeout (30s when zero) to close.
func NewShutdownManager(logger *slog.Logger, timeout time.Duration) *ShutdownManager {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ShutdownManager{
		logger:  logger,
		timeout: timeout,
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT},
	}
}

// Register adds a resource; the last registered is closed first
func (sm *ShutdownManager) Register(r Resource) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.resources = append(sm.resources, r)
}

// Wait blocks until a shutdown signal arrives or serveErr reports a failure,
// then shuts every resource down. A serve failure is returned.
func (sm *ShutdownManager) Wait(serveErr <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, sm.signals...)
	defer signal.Stop(sigChan)

	var cause error
	select {
	case sig := <-sigChan:
		sm.logger.Info("shutdown signal received", "signal", sig.String())
	case cause = <-serveErr:
		sm.logger.Error("server failed", "error", cause)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
	defer cancel()

	return errors.Join(cause, sm.Shutdown(ctx))
}

// Shutdown closes resources one at a time in reverse registration order, so
// the HTTP server drains before the stores it uses go away. Every resource
// is closed even when an earlier one fails.
func (sm *ShutdownManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	resources := slices.Clone(sm.resources)
	sm.mu.Unlock()

	sm.logger.Info("shutting down", "resources", len(resources), "timeout", sm.timeout.String())

	var errs []error
	for i := len(resources) - 1; i >= 0; i-- {
		r := resources[i]
		start := time.Now()
		if err := r.Close(ctx); err != nil {
			sm.logger.Error("failed to close resource", "resource", r.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		sm.logger.Info("resource closed", "resource", r.Name, "duration", time.Since(start).String())
	}
	return errors.Join(errs...)
}

// run serves until shutdown, then closes the server followed by resources in
// reverse order.
func run(srv *http.Server, tls *TLSFiles, resources []Resource, sm *ShutdownManager) error {
	for _, r := range resources {
		sm.Register(r)
	}
	sm.Register(HTTPServerResource(srv))

	serveErr := make(chan error, 1)
	go func() {
		var err error
		if tls != nil {
			sm.logger.Info("starting https server", "addr", srv.Addr)
			err = srv.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
		} else {
			sm.logger.Info("starting http server", "addr", srv.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	return sm.Wait(serveErr)
}

package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchen_dashboard/internal/cache"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func closer(name string, closed *[]string, err error) Resource {
	return Resource{Name: name, Close: func(ctx context.Context) error {
		*closed = append(*closed, name)
		return err
	}}
}

func TestShutdownClosesInReverseOrder(t *testing.T) {
	sm := NewShutdownManager(quietLogger, time.Second)

	var closed []string
	for _, name := range []string{"database", "session-cache", "http-server"} {
		sm.Register(closer(name, &closed, nil))
	}

	require.NoError(t, sm.Shutdown(context.Background()))
	assert.Equal(t, []string{"http-server", "session-cache", "database"}, closed)
}

func TestShutdownJoinsErrors(t *testing.T) {
	sm := NewShutdownManager(quietLogger, 0)

	errRedis := errors.New("redis: connection reset")
	var closed []string
	sm.Register(closer("database", &closed, nil))
	sm.Register(closer("session-cache", &closed, errRedis))

	err := sm.Shutdown(context.Background())
	assert.ErrorIs(t, err, errRedis)
	assert.Equal(t, []string{"session-cache", "database"}, closed, "a failing resource does not stop the rest")
}

func TestWaitReturnsServeFailure(t *testing.T) {
	sm := NewShutdownManager(quietLogger, time.Second)

	var closed []string
	sm.Register(closer("session-cache", &closed, nil))

	serveErr := make(chan error, 1)
	errBind := errors.New("listen tcp :8080: bind: address already in use")
	serveErr <- errBind

	assert.ErrorIs(t, sm.Wait(serveErr), errBind)
	assert.Equal(t, []string{"session-cache"}, closed)
}

func TestCacheResourceClosesCache(t *testing.T) {
	r := CacheResource("session-cache", cache.NewMemoryCache(nil))

	assert.Equal(t, "session-cache", r.Name)
	require.NoError(t, r.Close(context.Background()))
}

func TestHTTPServerResourceShutsDownServer(t *testing.T) {
	srv := New(http.NotFoundHandler(), &Config{Addr: "127.0.0.1:0", Logger: quietLogger})
	r := HTTPServerResource(srv)

	assert.Equal(t, "http-server", r.Name)
	require.NoError(t, r.Close(context.Background()))
	assert.ErrorIs(t, srv.ListenAndServe(), http.ErrServerClosed)
}

func TestNewAppliesConfig(t *testing.T) {
	cfg := ProductionConfig(":9090")
	cfg.Logger = quietLogger

	srv := New(http.NotFoundHandler(), cfg)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 10*time.Second, srv.ReadTimeout)
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 120*time.Second, srv.IdleTimeout)
	assert.NotNil(t, srv.ErrorLog)
}

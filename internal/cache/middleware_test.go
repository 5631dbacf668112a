package cache

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponseCache(t *testing.T, next http.Handler) http.Handler {
	t.Helper()
	cfg := DefaultCacheMiddlewareConfig()
	cfg.Cache = newTestMemoryCache(t, nil)
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg.DefaultTTL = time.Minute
	return CacheMiddleware(cfg)(next)
}

func TestCacheMiddlewareHitAfterMiss(t *testing.T) {
	calls := 0
	h := newResponseCache(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "first-visitor"})
		w.Write([]byte(`{"unread_count":2}`))
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/notifications?page=1", nil))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.NotEmpty(t, first.Result().Cookies())

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/notifications?page=1", nil))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"unread_count":2}`, second.Body.String())
	assert.Empty(t, second.Header().Values("Set-Cookie"), "cookies are never replayed")
	assert.Equal(t, 1, calls)

	other := httptest.NewRecorder()
	h.ServeHTTP(other, httptest.NewRequest(http.MethodGet, "/api/notifications?page=2", nil))
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestCacheMiddlewareSkipsErrorsAndUnsafeMethods(t *testing.T) {
	calls := 0
	status := http.StatusServiceUnavailable
	h := newResponseCache(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(status)
	}))

	for range 2 {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fragments/notifications", nil))
	}
	assert.Equal(t, 2, calls, "failed responses are not cached")

	status = http.StatusOK
	for range 2 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fragments/notifications", nil))
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 4, calls)
}

func TestCacheMiddlewareDisabledWithoutCache(t *testing.T) {
	cfg := DefaultCacheMiddlewareConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	calls := 0
	h := CacheMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for range 2 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))
		require.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
}

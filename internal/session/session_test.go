package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchen_dashboard/internal/cache"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	backend := cache.NewMemoryCache(nil)
	t.Cleanup(func() { backend.Close() })

	m, err := NewManager(&Config{
		Cache:  backend,
		Secret: "test-secret",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return m
}

// captureSession runs the middleware and returns the storage the handler saw
func captureSession(t *testing.T, m *Manager, req *http.Request) (*Storage, *httptest.ResponseRecorder) {
	t.Helper()
	var got *Storage
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := FromContext(r.Context())
		require.NoError(t, err)
		got = s
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.NotNil(t, got)
	return got, rec
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(nil)
	assert.Error(t, err)

	_, err = NewManager(&Config{Cache: cache.NewMemoryCache(nil)})
	assert.Error(t, err)
}

func TestMiddlewareIssuesAndReusesSession(t *testing.T) {
	m := newTestManager(t)

	first, rec := captureSession(t, m, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Expires.IsZero(), "session cookie must not persist beyond the browser session")

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req.AddCookie(cookies[0])
	second, rec := captureSession(t, m, req)

	assert.Equal(t, first.ID(), second.ID())
	assert.Empty(t, rec.Result().Cookies(), "a valid cookie is not reissued")
}

func TestMiddlewareRejectsTamperedCookie(t *testing.T) {
	m := newTestManager(t)

	first, rec := captureSession(t, m, httptest.NewRequest(http.MethodGet, "/", nil))
	original := rec.Result().Cookies()[0]

	tampered := *original
	tampered.Value = "0b5d8e0e-1b7a-4c39-9d0a-8f0f7a3c2e11" + original.Value[len(first.ID()):]

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&tampered)
	second, rec := captureSession(t, m, req)

	assert.NotEqual(t, "0b5d8e0e-1b7a-4c39-9d0a-8f0f7a3c2e11", second.ID())
	assert.Len(t, rec.Result().Cookies(), 1, "a fresh cookie replaces the tampered one")
}

func TestVerifyRejectsMalformedValues(t *testing.T) {
	m := newTestManager(t)
	issued := time.Unix(1760000000, 0)

	for _, value := range []string{
		"",
		"no-dot",
		"not-a-uuid.abc",
		m.sign("not-a-uuid", issued),
		"6f1c2a8e-4a57-4f55-8d1e-2b1b2f6b7c90.abc",
		strings.Replace(m.sign("6f1c2a8e-4a57-4f55-8d1e-2b1b2f6b7c90", issued), ".1760000000.", ".1760009999.", 1),
	} {
		_, _, ok := m.verify(value)
		assert.False(t, ok, value)
	}

	id := "6f1c2a8e-4a57-4f55-8d1e-2b1b2f6b7c90"
	got, gotIssued, ok := m.verify(m.sign(id, issued))
	assert.True(t, ok)
	assert.Equal(t, id, got)
	assert.True(t, issued.Equal(gotIssued))
}

func TestSessionEndsWithItsValues(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	clock := time.Unix(1760000000, 0)
	m.now = func() time.Time { return clock }

	first, rec := captureSession(t, m, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := rec.Result().Cookies()[0]
	require.NoError(t, first.Set(ctx, "api-config-banner-dismissed", "true"))

	clock = clock.Add(m.ttl - time.Second)
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(cookie)
	same, rec := captureSession(t, m, req)
	assert.Equal(t, first.ID(), same.ID())
	assert.Empty(t, rec.Result().Cookies())

	value, ok, err := same.Get(ctx, "api-config-banner-dismissed")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", value)

	// past the TTL the stored values may be gone, so the cookie no longer names a session
	clock = clock.Add(time.Second)
	req = httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(cookie)
	next, rec := captureSession(t, m, req)
	assert.NotEqual(t, first.ID(), next.ID())
	require.Len(t, rec.Result().Cookies(), 1, "an expired session is replaced by a fresh cookie")

	_, ok, err = next.Get(ctx, "api-config-banner-dismissed")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorageIsScopedPerSession(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	a := m.Storage("6f1c2a8e-4a57-4f55-8d1e-2b1b2f6b7c90")
	b := m.Storage("0b5d8e0e-1b7a-4c39-9d0a-8f0f7a3c2e11")

	require.NoError(t, a.Set(ctx, "api-config-banner-dismissed", "true"))

	value, ok, err := a.Get(ctx, "api-config-banner-dismissed")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", value)

	_, ok, err = b.Get(ctx, "api-config-banner-dismissed")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.Remove(ctx, "api-config-banner-dismissed"))
	_, ok, err = a.Get(ctx, "api-config-banner-dismissed")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFromContextWithoutSession(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

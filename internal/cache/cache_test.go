package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryCache(t *testing.T, cfg *Config) *MemoryCache {
	t.Helper()
	mc := NewMemoryCache(cfg)
	t.Cleanup(func() { mc.Close() })
	return mc
}

func TestMemoryCacheSetGetDelete(t *testing.T) {
	ctx := context.Background()
	mc := newTestMemoryCache(t, nil)

	require.NoError(t, mc.Set(ctx, "flag", []byte("true"), 0))

	value, err := mc.Get(ctx, "flag")
	require.NoError(t, err)
	assert.Equal(t, "true", string(value))

	exists, err := mc.Exists(ctx, "flag")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, mc.Delete(ctx, "flag"))

	_, err = mc.Get(ctx, "flag")
	assert.ErrorIs(t, err, ErrCacheNotFound)

	exists, err = mc.Exists(ctx, "flag")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc := newTestMemoryCache(t, &Config{})

	require.NoError(t, mc.Set(ctx, "short", []byte("v"), 20*time.Millisecond))
	require.NoError(t, mc.Set(ctx, "forever", []byte("v"), 0))
	time.Sleep(50 * time.Millisecond)

	_, err := mc.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheNotFound)
	assert.Equal(t, 2, mc.Len(), "expired entries stay until swept")

	mc.sweep(time.Now())
	assert.Equal(t, 1, mc.Len())
	exists, err := mc.Exists(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, exists, "a zero default TTL never expires")
}

func TestMemoryCacheStoredValueIsCopied(t *testing.T) {
	ctx := context.Background()
	mc := newTestMemoryCache(t, nil)

	value := []byte("abc")
	require.NoError(t, mc.Set(ctx, "k", value, 0))
	value[0] = 'z'

	got, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryCacheCloseTwice(t *testing.T) {
	mc := NewMemoryCache(nil)
	assert.NoError(t, mc.Close())
	assert.NoError(t, mc.Close())
}

// brokenCache fails every operation like an unreachable Redis
type brokenCache struct{}

var errBroken = errors.New("connection refused")

func (brokenCache) Get(context.Context, string) ([]byte, error) {
	return nil, &CacheError{Op: "get", Err: errBroken}
}
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return &CacheError{Op: "set", Err: errBroken}
}
func (brokenCache) Delete(context.Context, string) error {
	return &CacheError{Op: "delete", Err: errBroken}
}
func (brokenCache) Exists(context.Context, string) (bool, error) {
	return false, &CacheError{Op: "exists", Err: errBroken}
}
func (brokenCache) Ping(context.Context) error { return &CacheError{Op: "ping", Err: errBroken} }
func (brokenCache) Close() error               { return nil }

func TestFallbackCacheServesFromMemoryWhenPrimaryFails(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fc := NewFallbackCacheWith(brokenCache{}, newTestMemoryCache(t, nil), logger)

	err := fc.Set(ctx, "k", []byte("v"), 0)
	assert.ErrorIs(t, err, errBroken, "primary failure is still reported")

	value, err := fc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(value))

	exists, err := fc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFallbackCacheWithoutPrimary(t *testing.T) {
	ctx := context.Background()
	fc := NewFallbackCacheWith(nil, newTestMemoryCache(t, nil), nil)

	assert.False(t, fc.UsingPrimary())
	require.NoError(t, fc.Set(ctx, "k", []byte("v"), 0))

	value, err := fc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(value))
	assert.NoError(t, fc.Ping(ctx))
}

func TestFallbackCacheMissOnPrimaryIsFinal(t *testing.T) {
	ctx := context.Background()
	primary := newTestMemoryCache(t, nil)
	fallback := newTestMemoryCache(t, nil)
	require.NoError(t, fallback.Set(ctx, "stale", []byte("old"), 0))

	fc := NewFallbackCacheWith(primary, fallback, nil)

	_, err := fc.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

package cache

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheFailMapsMissingKey(t *testing.T) {
	rc := &RedisCache{config: DefaultConfig(), logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	assert.ErrorIs(t, rc.fail("get", "kitchen:session:a", redis.Nil), ErrCacheNotFound)

	readonly := errors.New("READONLY You can't write against a read only replica")
	err := rc.fail("set", "kitchen:session:a", readonly)
	var cacheErr *CacheError
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, "set", cacheErr.Op)
	assert.Equal(t, "kitchen:session:a", cacheErr.Key)
	assert.ErrorIs(t, err, readonly)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	cfg := DefaultRedisConfig()
	cfg.Addr = "127.0.0.1:1"
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewRedisCache(cfg)
	var cacheErr *CacheError
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, "connect", cacheErr.Op)
}

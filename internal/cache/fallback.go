package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// FallbackCache implements a cache with Redis primary and memory fallback
type FallbackCache struct {
	primary  Cache
	fallback Cache
	logger   *slog.Logger
}

// FallbackConfig holds fallback cache configuration
type FallbackConfig struct {
	// Redis configuration
	Redis *RedisConfig

	// Memory cache configuration
	Memory *Config

	// Logger for structured logging
	Logger *slog.Logger
}

// DefaultFallbackConfig returns a default fallback configuration
func DefaultFallbackConfig() *FallbackConfig {
	return &FallbackConfig{
		Redis:  DefaultRedisConfig(),
		Memory: DefaultConfig(),
	}
}

// NewFallbackCache creates a fallback cache; an unreachable Redis leaves only the memory cache
func NewFallbackCache(config *FallbackConfig) *FallbackCache {
	if config == nil {
		config = DefaultFallbackConfig()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var primary Cache
	redisCache, err := NewRedisCache(config.Redis)
	if err != nil {
		logger.Warn("redis cache unavailable, using memory cache only", "error", err)
	} else {
		primary = redisCache
		logger.Info("fallback cache initialized with redis primary")
	}

	return NewFallbackCacheWith(primary, NewMemoryCache(config.Memory), logger)
}

// NewFallbackCacheWith composes two existing caches; primary may be nil
func NewFallbackCacheWith(primary, fallback Cache, logger *slog.Logger) *FallbackCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// UsingPrimary reports whether a primary backend is configured
func (fc *FallbackCache) UsingPrimary() bool {
	return fc.primary != nil
}

// Get retrieves a value from cache (primary first, then fallback)
func (fc *FallbackCache) Get(ctx context.Context, key string) ([]byte, error) {
	if fc.primary != nil {
		value, err := fc.primary.Get(ctx, key)
		if err == nil {
			return value, nil
		}

		if errors.Is(err, ErrCacheNotFound) {
			return nil, err
		}

		fc.logger.Warn("primary cache get failed, trying fallback", "error", err, "key", key)
	}

	return fc.fallback.Get(ctx, key)
}

// both runs op on the fallback and, when present, the primary. A fallback
// failure wins; otherwise a primary failure is returned after logging.
func (fc *FallbackCache) both(name, key string, op func(Cache) error) error {
	var primaryErr error
	if fc.primary != nil {
		if primaryErr = op(fc.primary); primaryErr != nil {
			fc.logger.Warn("primary cache "+name+" failed", "error", primaryErr, "key", key)
		}
	}
	if err := op(fc.fallback); err != nil {
		fc.logger.Error("fallback cache "+name+" failed", "error", err, "key", key)
		return err
	}
	return primaryErr
}

// Set writes to both caches so the fallback stays warm
func (fc *FallbackCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return fc.both("set", key, func(c Cache) error { return c.Set(ctx, key, value, ttl) })
}

func (fc *FallbackCache) Delete(ctx context.Context, key string) error {
	return fc.both("delete", key, func(c Cache) error { return c.Delete(ctx, key) })
}

// Exists checks the primary first, then the fallback
func (fc *FallbackCache) Exists(ctx context.Context, key string) (bool, error) {
	if fc.primary != nil {
		exists, err := fc.primary.Exists(ctx, key)
		if err == nil {
			return exists, nil
		}
		fc.logger.Warn("primary cache exists failed, trying fallback", "error", err, "key", key)
	}

	return fc.fallback.Exists(ctx, key)
}

// Ping reports the primary's health when present, otherwise the fallback's
func (fc *FallbackCache) Ping(ctx context.Context) error {
	if fc.primary != nil {
		return fc.primary.Ping(ctx)
	}
	return fc.fallback.Ping(ctx)
}

func (fc *FallbackCache) Close() error {
	return fc.both("close", "", func(c Cache) error { return c.Close() })
}

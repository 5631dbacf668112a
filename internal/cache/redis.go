package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the Redis connection behind the session cache
type RedisConfig struct {
	// Common cache config
	*Config

	Addr     string
	Password string
	DB       int

	// Logger for structured logging
	Logger *slog.Logger
}

// DefaultRedisConfig returns a Redis configuration for a local server
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Config: DefaultConfig(),
		Addr:   "localhost:6379",
	}
}

// RedisCache stores entries in Redis under the configured key prefix
type RedisCache struct {
	client *redis.Client
	config *Config
	logger *slog.Logger
}

// NewRedisCache connects to Redis and fails unless the server answers a ping
func NewRedisCache(config *RedisConfig) (*RedisCache, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}
	if config.Config == nil {
		config.Config = DefaultConfig()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, &CacheError{Op: "connect", Key: config.Addr, Err: err}
	}

	logger.Info("redis cache connected", "addr", config.Addr, "db", config.DB)
	return &RedisCache{client: client, config: config.Config, logger: logger}, nil
}

// fail logs a command error and wraps it; redis.Nil becomes ErrCacheNotFound
func (rc *RedisCache) fail(op, key string, err error) error {
	if errors.Is(err, redis.Nil) {
		return ErrCacheNotFound
	}
	rc.logger.Error("redis command failed", "op", op, "key", key, "error", err)
	return &CacheError{Op: op, Key: key, Err: err}
}

func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	key = rc.config.key(key)

	value, err := rc.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, rc.fail("get", key, err)
	}
	return value, nil
}

// Set stores value; a zero ttl means the configured default
func (rc *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	key = rc.config.key(key)
	if ttl == 0 {
		ttl = rc.config.DefaultTTL
	}

	if err := rc.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return rc.fail("set", key, err)
	}
	return nil
}

func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	key = rc.config.key(key)

	if err := rc.client.Del(ctx, key).Err(); err != nil {
		return rc.fail("delete", key, err)
	}
	return nil
}

func (rc *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	key = rc.config.key(key)

	n, err := rc.client.Exists(ctx, key).Result()
	if err != nil {
		return false, rc.fail("exists", key, err)
	}
	return n > 0, nil
}

func (rc *RedisCache) Ping(ctx context.Context) error {
	if err := rc.client.Ping(ctx).Err(); err != nil {
		return &CacheError{Op: "ping", Err: err}
	}
	return nil
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

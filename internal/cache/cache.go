package cache

import (
	"context"
	"errors"
	"time"
)

// Cache is the key/value backend behind session storage and the response cache
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value for ttl; zero means the backend's default TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// Config holds settings shared by every backend
type Config struct {
	// DefaultTTL applies when Set is called with a zero TTL; zero never expires
	DefaultTTL time.Duration

	// Prefix namespaces every key
	Prefix string
}

// DefaultConfig keeps entries for a default session lifetime under "kitchen:"
func DefaultConfig() *Config {
	return &Config{
		DefaultTTL: 12 * time.Hour,
		Prefix:     "kitchen:",
	}
}

// ErrCacheNotFound is returned by Get for missing or expired keys
var ErrCacheNotFound = errors.New("cache: key not found")

// CacheError reports a failed backend operation
type CacheError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheError) Error() string {
	if e.Key == "" {
		return "cache " + e.Op + ": " + e.Err.Error()
	}
	return "cache " + e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

func (c *Config) key(k string) string {
	return c.Prefix + k
}

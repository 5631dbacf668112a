package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// janitorInterval is how often expired entries are swept
const janitorInterval = time.Minute

// MemoryCache keeps entries in a map. It backs single-instance deployments and
// stands in for Redis when Redis is unreachable.
type MemoryCache struct {
	config *Config

	mu      sync.RWMutex
	entries map[string]entry

	stop     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	value   []byte
	expires time.Time // zero never expires
}

func (e entry) live(now time.Time) bool {
	return e.expires.IsZero() || now.Before(e.expires)
}

// NewMemoryCache creates a memory cache and starts its janitor; Close stops it
func NewMemoryCache(config *Config) *MemoryCache {
	if config == nil {
		config = DefaultConfig()
	}

	mc := &MemoryCache{
		config:  config,
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go mc.janitor()
	return mc
}

// Get returns a copy of the stored value
func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	key = mc.config.key(key)

	mc.mu.RLock()
	e, ok := mc.entries[key]
	mc.mu.RUnlock()

	if !ok || !e.live(time.Now()) {
		return nil, ErrCacheNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = mc.config.DefaultTTL
	}

	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}

	mc.mu.Lock()
	mc.entries[mc.config.key(key)] = e
	mc.mu.Unlock()
	return nil
}

func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	delete(mc.entries, mc.config.key(key))
	mc.mu.Unlock()
	return nil
}

func (mc *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := mc.Get(ctx, key)
	if errors.Is(err, ErrCacheNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (mc *MemoryCache) Ping(ctx context.Context) error {
	return nil
}

// Close stops the janitor; it is safe to call more than once
func (mc *MemoryCache) Close() error {
	mc.stopOnce.Do(func() { close(mc.stop) })
	return nil
}

// Len returns the number of stored entries, expired ones not yet swept included
func (mc *MemoryCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.entries)
}

func (mc *MemoryCache) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			mc.sweep(now)
		case <-mc.stop:
			return
		}
	}
}

func (mc *MemoryCache) sweep(now time.Time) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for key, e := range mc.entries {
		if !e.live(now) {
			delete(mc.entries, key)
		}
	}
}

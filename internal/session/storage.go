package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kitchen_dashboard/internal/cache"
)

// ErrNoSession is returned when a request context carries no session storage
var ErrNoSession = errors.New("no session found in context")

// Storage is the session-scoped key/value store of one browser session.
// Values outlive the session that wrote them, never the reverse.
type Storage struct {
	backend cache.Cache
	id      string
	ttl     time.Duration
}

// NewStorage binds a session ID to a cache backend
func NewStorage(backend cache.Cache, id string, ttl time.Duration) *Storage {
	return &Storage{
		backend: backend,
		id:      id,
		ttl:     ttl,
	}
}

// ID returns the session identifier
func (s *Storage) ID() string {
	return s.id
}

// Get returns the value stored under key and whether it was present
func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.backend.Get(ctx, s.key(key))
	if errors.Is(err, cache.ErrCacheNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %q: %w", key, err)
	}
	return string(value), true, nil
}

// Set stores value under key for the rest of the session
func (s *Storage) Set(ctx context.Context, key, value string) error {
	if err := s.backend.Set(ctx, s.key(key), []byte(value), s.ttl); err != nil {
		return fmt.Errorf("session set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key from the session
func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, s.key(key)); err != nil {
		return fmt.Errorf("session remove %q: %w", key, err)
	}
	return nil
}

func (s *Storage) key(key string) string {
	return "session:" + s.id + ":" + key
}

type contextKey struct{}

// NewContext returns a context carrying the session storage
func NewContext(ctx context.Context, storage *Storage) context.Context {
	return context.WithValue(ctx, contextKey{}, storage)
}

// FromContext retrieves the session storage attached by the middleware
func FromContext(ctx context.Context) (*Storage, error) {
	storage, ok := ctx.Value(contextKey{}).(*Storage)
	if !ok || storage == nil {
		return nil, ErrNoSession
	}
	return storage, nil
}

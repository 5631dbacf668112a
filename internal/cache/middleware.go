package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"
)

// CacheMiddlewareConfig holds response cache configuration
type CacheMiddlewareConfig struct {
	// Cache implementation
	Cache Cache

	// Logger for structured logging
	Logger *slog.Logger

	// TTL for cached responses
	DefaultTTL time.Duration

	// Cache only specific methods (default: GET, HEAD)
	Methods []string

	// Skip caching based on request
	Skipper func(r *http.Request) bool

	// Custom key generator
	KeyGenerator func(r *http.Request) string

	// Cache only specific status codes (default: 200)
	StatusCodes []int

	// Include query parameters in cache key
	IncludeQuery bool

	// Response headers replayed on a hit. Anything else, Set-Cookie in
	// particular, is never stored.
	StoredHeaders []string
}

// DefaultCacheMiddlewareConfig returns a default cache middleware configuration
func DefaultCacheMiddlewareConfig() *CacheMiddlewareConfig {
	return &CacheMiddlewareConfig{
		DefaultTTL:    15 * time.Second,
		Methods:       []string{http.MethodGet, http.MethodHead},
		StatusCodes:   []int{http.StatusOK},
		IncludeQuery:  true,
		StoredHeaders: []string{"Content-Type"},
	}
}

// CacheMiddleware caches responses that are identical for every visitor
func CacheMiddleware(config *CacheMiddlewareConfig) func(next http.Handler) http.Handler {
	if config == nil {
		config = DefaultCacheMiddlewareConfig()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.Cache == nil || config.DefaultTTL <= 0 {
		logger.Warn("response cache disabled", "has_cache", config.Cache != nil, "ttl", config.DefaultTTL.String())
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	keyGen := config.KeyGenerator
	if keyGen == nil {
		keyGen = defaultKeyGenerator(config)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.Skipper != nil && config.Skipper(r) {
				next.ServeHTTP(w, r)
				return
			}

			if !slices.Contains(config.Methods, r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			cacheKey := keyGen(r)

			if cached, err := config.Cache.Get(r.Context(), cacheKey); err == nil {
				var resp cachedResponse
				if err := json.Unmarshal(cached, &resp); err == nil {
					logger.Debug("cache hit", "key", cacheKey, "path", r.URL.Path)
					for key, values := range resp.Headers {
						for _, value := range values {
							w.Header().Add(key, value)
						}
					}
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(resp.StatusCode)
					w.Write(resp.Body)
					return
				}
				logger.Warn("discarding unreadable cached response", "key", cacheKey)
			}

			logger.Debug("cache miss", "key", cacheKey, "path", r.URL.Path)
			w.Header().Set("X-Cache", "MISS")

			rec := &responseRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			next.ServeHTTP(rec, r)

			if !slices.Contains(config.StatusCodes, rec.statusCode) {
				return
			}

			resp := cachedResponse{
				StatusCode: rec.statusCode,
				Headers:    make(http.Header),
				Body:       rec.body.Bytes(),
			}
			for _, name := range config.StoredHeaders {
				if values := rec.Header().Values(name); len(values) > 0 {
					resp.Headers[http.CanonicalHeaderKey(name)] = values
				}
			}

			serialized, err := json.Marshal(resp)
			if err != nil {
				logger.Error("failed to encode cached response", "error", err, "key", cacheKey)
				return
			}
			if err := config.Cache.Set(r.Context(), cacheKey, serialized, config.DefaultTTL); err != nil {
				logger.Error("failed to cache response", "error", err, "key", cacheKey)
				return
			}
			logger.Debug("response cached", "key", cacheKey, "ttl", config.DefaultTTL.String())
		})
	}
}

// responseRecorder tees the response into a buffer for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rec *responseRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *responseRecorder) Write(b []byte) (int, error) {
	rec.body.Write(b)
	return rec.ResponseWriter.Write(b)
}

// cachedResponse is the stored form of a response
type cachedResponse struct {
	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers"`
	Body       []byte      `json:"body"`
}

// defaultKeyGenerator hashes method, path and optionally the query
func defaultKeyGenerator(config *CacheMiddlewareConfig) func(r *http.Request) string {
	return func(r *http.Request) string {
		h := sha256.New()
		h.Write([]byte(r.Method + ":" + r.URL.Path))
		if config.IncludeQuery && r.URL.RawQuery != "" {
			h.Write([]byte("?" + r.URL.RawQuery))
		}
		return "http:" + hex.EncodeToString(h.Sum(nil))
	}
}

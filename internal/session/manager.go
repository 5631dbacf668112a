package session

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"kitchen_dashboard/internal/cache"
)

// DefaultCookieName is the name of the browser session cookie
const DefaultCookieName = "kd_session"

// Config holds session manager configuration
type Config struct {
	// Cache backend for session values (Redis recommended for production)
	Cache cache.Cache

	// Secret used to sign session cookies
	Secret string

	// TTL is the lifetime of a session and of the values stored in it
	TTL time.Duration

	CookieName   string
	CookieSecure bool

	// Logger for structured logging
	Logger *slog.Logger
}

// Manager issues signed session cookies and attaches session storage to requests
type Manager struct {
	backend      cache.Cache
	key          [32]byte
	ttl          time.Duration
	cookieName   string
	cookieSecure bool
	logger       *slog.Logger
	now          func() time.Time
}

// NewManager creates a session manager
func NewManager(config *Config) (*Manager, error) {
	if config == nil || config.Cache == nil {
		return nil, errors.New("session cache backend is required")
	}
	if config.Secret == "" {
		return nil, errors.New("session secret is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ttl := config.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	cookieName := config.CookieName
	if cookieName == "" {
		cookieName = DefaultCookieName
	}

	return &Manager{
		backend:      config.Cache,
		key:          blake2b.Sum256([]byte(config.Secret)),
		ttl:          ttl,
		cookieName:   cookieName,
		cookieSecure: config.CookieSecure,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// Middleware resolves the session from the signed cookie, issuing a new one when
// the cookie is missing, fails verification or is older than the TTL.
// Values are written with the same TTL, so none expires while its session lives.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.sessionID(r)
		if !ok {
			id = uuid.NewString()
			http.SetCookie(w, m.cookie(id, m.now()))
			m.logger.Debug("session issued", "path", r.URL.Path)
		}

		storage := NewStorage(m.backend, id, m.ttl)
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), storage)))
	})
}

// Storage returns the storage for a known session ID
func (m *Manager) Storage(id string) *Storage {
	return NewStorage(m.backend, id, m.ttl)
}

// CookieName returns the session cookie name
func (m *Manager) CookieName() string {
	return m.cookieName
}

func (m *Manager) sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}

	id, issued, ok := m.verify(c.Value)
	if !ok {
		m.logger.Warn("rejected session cookie", "path", r.URL.Path)
		return "", false
	}
	if m.now().Sub(issued) >= m.ttl {
		m.logger.Debug("session expired", "path", r.URL.Path, "issued_at", issued)
		return "", false
	}
	return id, true
}

func (m *Manager) cookie(id string, issued time.Time) *http.Cookie {
	// No Expires: the cookie ends with the browser session
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    m.sign(id, issued),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// sign encodes "<id>.<issued unix seconds>.<mac>"
func (m *Manager) sign(id string, issued time.Time) string {
	payload := id + "." + strconv.FormatInt(issued.Unix(), 10)
	return payload + "." + base64.RawURLEncoding.EncodeToString(m.mac(payload))
}

func (m *Manager) verify(value string) (string, time.Time, bool) {
	cut := strings.LastIndexByte(value, '.')
	if cut < 0 {
		return "", time.Time{}, false
	}
	payload, encoded := value[:cut], value[cut+1:]

	id, unix, found := strings.Cut(payload, ".")
	if !found {
		return "", time.Time{}, false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", time.Time{}, false
	}
	seconds, err := strconv.ParseInt(unix, 10, 64)
	if err != nil {
		return "", time.Time{}, false
	}

	sig, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", time.Time{}, false
	}
	if subtle.ConstantTimeCompare(sig, m.mac(payload)) != 1 {
		return "", time.Time{}, false
	}
	return id, time.Unix(seconds, 0), true
}

func (m *Manager) mac(payload string) []byte {
	h, err := blake2b.New256(m.key[:])
	if err != nil {
		// only possible with a key longer than 64 bytes
		panic(err)
	}
	h.Write([]byte(payload))
	return h.Sum(nil)
}

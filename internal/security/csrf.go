package security

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"kitchen_dashboard/internal/config"
	"kitchen_dashboard/internal/session"
)

// ErrCSRFTokenInvalid is returned when an unsafe request carries no matching token
var ErrCSRFTokenInvalid = errors.New("invalid csrf token")

const (
	// HeaderName is the request header htmx sends the token in (via hx-headers)
	HeaderName = "X-CSRF-Token"

	// FieldName is the form field accepted from plain form posts
	FieldName = "csrf_token"

	// tokenKey is the session storage key holding the token
	tokenKey = "csrf-token"

	tokenBytes = 32
)

type csrfTokenKey struct{}

// CSRFProtection binds one token to each session. Tokens live in session
// storage, so the session middleware must run first.
type CSRFProtection struct {
	logger *slog.Logger
}

// NewCSRFProtection creates the CSRF middleware
func NewCSRFProtection(logger *slog.Logger) *CSRFProtection {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSRFProtection{logger: logger}
}

// Middleware hands safe requests the session token through the context and
// rejects unsafe ones whose token does not match it.
func (c *CSRFProtection) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		storage, err := session.FromContext(r.Context())
		if err != nil {
			config.RespondInternalError(w, fmt.Errorf("csrf middleware without session on %s: %w", r.URL.Path, err), c.logger)
			return
		}

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			token, err := c.ensureToken(r.Context(), storage)
			if err != nil {
				config.RespondInternalError(w, fmt.Errorf("failed to issue CSRF token: %w", err), c.logger)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token)))
			return
		}

		if err := validateToken(r, storage); err != nil {
			c.logger.Warn("CSRF validation failed",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
			)
			config.RespondForbidden(w, "CSRF token validation failed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HeaderName returns the request header carrying the token
func (c *CSRFProtection) HeaderName() string {
	return HeaderName
}

// GetCSRFToken returns the token the middleware put in ctx, or ""
func GetCSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenKey{}).(string)
	return token
}

// ensureToken returns the session's token, creating it on first use
func (c *CSRFProtection) ensureToken(ctx context.Context, storage *session.Storage) (string, error) {
	token, ok, err := storage.Get(ctx, tokenKey)
	if err != nil {
		return "", err
	}
	if ok && token != "" {
		return token, nil
	}

	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token = base64.RawURLEncoding.EncodeToString(raw)

	if err := storage.Set(ctx, tokenKey, token); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	c.logger.Debug("csrf token issued", "session_id", storage.ID())
	return token, nil
}

func validateToken(r *http.Request, storage *session.Storage) error {
	sent := r.Header.Get(HeaderName)
	if sent == "" {
		sent = r.PostFormValue(FieldName)
	}
	if sent == "" {
		return ErrCSRFTokenInvalid
	}

	stored, ok, err := storage.Get(r.Context(), tokenKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCSRFTokenInvalid, err)
	}
	if !ok || subtle.ConstantTimeCompare([]byte(sent), []byte(stored)) != 1 {
		return ErrCSRFTokenInvalid
	}
	return nil
}

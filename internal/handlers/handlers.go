package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	g "maragu.dev/gomponents"

	"kitchen_dashboard/internal/banner"
	"kitchen_dashboard/internal/config"
	"kitchen_dashboard/internal/notifications"
	"kitchen_dashboard/internal/observability"
	"kitchen_dashboard/internal/security"
	"kitchen_dashboard/internal/session"
	"kitchen_dashboard/internal/setup"
	"kitchen_dashboard/internal/sidebar"
	"kitchen_dashboard/internal/ui"
)

// Handler carries the dependencies shared by every dashboard handler
type Handler struct {
	Logger        *slog.Logger
	Metrics       *observability.Metrics
	Checker       *setup.Checker
	Notifications notifications.Provider
	Sidebar       *sidebar.Sidebar
	CSRF          *security.CSRFProtection
	SetupPath     string
	CookieSecure  bool
}

// NewHandler fills in defaults for the optional fields of h
func NewHandler(h Handler) *Handler {
	if h.Logger == nil {
		h.Logger = slog.Default()
	}
	if h.Checker == nil {
		h.Checker = setup.NewChecker(config.IntegrationsConfig{})
	}
	if h.Notifications == nil {
		h.Notifications = notifications.NewStaticProvider(nil)
	}
	if h.Sidebar == nil {
		h.Sidebar = sidebar.New()
	}
	if h.SetupPath == "" {
		h.SetupPath = banner.DefaultSetupPath
	}
	return &h
}

// Banner builds the api config banner bound to the request's session
func (h *Handler) Banner(r *http.Request, nav banner.Navigator) (*banner.Banner, error) {
	storage, err := session.FromContext(r.Context())
	if err != nil {
		return nil, err
	}
	return banner.New(storage, h.Checker, nav,
		banner.WithSetupPath(h.SetupPath),
		banner.WithLogger(h.Logger),
	), nil
}

// LoadBanner initializes the banner for a page render. Failures are logged and
// leave the banner hidden.
func (h *Handler) LoadBanner(r *http.Request) *banner.Banner {
	b, err := h.Banner(r, banner.NavigatorFunc(func(ctx context.Context, path string) error { return nil }))
	if err != nil {
		h.Logger.Error("banner unavailable", "error", err, "request_id", observability.GetRequestID(r.Context()))
		h.metric(func(m *observability.Metrics) { m.BannerError() })
		return nil
	}

	if err := b.Initialize(r.Context()); err != nil {
		h.Logger.Warn("banner initialization failed", "error", err, "request_id", observability.GetRequestID(r.Context()))
		h.metric(func(m *observability.Metrics) { m.BannerError() })
		return b
	}

	if b.Visible() {
		h.metric(func(m *observability.Metrics) { m.BannerShown() })
	}
	return b
}

// LoadBadge reads the notifications once for the badge
func (h *Handler) LoadBadge(ctx context.Context) *notifications.Badge {
	badge := notifications.NewBadge(h.Notifications)
	err := badge.Load(ctx)
	if err != nil {
		h.Logger.Warn("notifications unavailable", "error", err)
	}
	h.metric(func(m *observability.Metrics) { m.NotificationsLoaded(err, badge.UnreadCount()) })
	return badge
}

// Shell assembles the page layout around content for the current request
func (h *Handler) Shell(r *http.Request, title string, content g.Node) g.Node {
	page := ui.Page{
		Title:         title,
		Sidebar:       h.Sidebar.Render(r.URL.Path, sidebar.StateFromRequest(r)),
		Notifications: h.LoadBadge(r.Context()).Render(),
		Content:       content,
	}

	if b := h.LoadBanner(r); b != nil {
		page.Banner = b.Render()
	}

	if h.CSRF != nil {
		page.CSRFHeader = h.CSRF.HeaderName()
		page.CSRFToken = security.GetCSRFToken(r.Context())
	}

	return ui.Layout(page)
}

// RenderHTML writes node as an HTML response. The node is rendered into a
// buffer first so a render error can still produce a 500.
func (h *Handler) RenderHTML(w http.ResponseWriter, statusCode int, node g.Node) {
	var buf bytes.Buffer
	if node != nil {
		if err := node.Render(&buf); err != nil {
			h.Logger.Error("failed to render html", "error", err)
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Debug("failed to write html response", "error", err)
	}
}

// IsHTMX reports whether the request was issued by htmx
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// CurrentPath returns the path of the page the user is looking at when an
// htmx request was fired, falling back to the Referer and then "/".
// The result is always a local path, safe to use as a redirect target.
func CurrentPath(r *http.Request) string {
	for _, raw := range []string{r.Header.Get("HX-Current-URL"), r.Header.Get("Referer")} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err == nil && isLocalPath(u.Path) {
			return u.Path
		}
	}
	return "/"
}

// isLocalPath rejects paths a browser would resolve against another host
func isLocalPath(p string) bool {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return false
	}
	return !strings.ContainsRune(p, '\\')
}

func (h *Handler) metric(record func(m *observability.Metrics)) {
	if h.Metrics != nil {
		record(h.Metrics)
	}
}

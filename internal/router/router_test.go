package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchen_dashboard/internal/banner"
	"kitchen_dashboard/internal/cache"
	"kitchen_dashboard/internal/config"
	"kitchen_dashboard/internal/handlers"
	"kitchen_dashboard/internal/observability"
	"kitchen_dashboard/internal/security"
	"kitchen_dashboard/internal/session"
	"kitchen_dashboard/internal/setup"
	"kitchen_dashboard/internal/sidebar"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// csrfPattern finds the token in the body's hx-headers attribute (quotes are entity-encoded)
var csrfPattern = regexp.MustCompile(`X-CSRF-Token&#34;:&#34;([^&]+)&#34;`)

func newTestServer(t *testing.T) (*httptest.Server, *prometheus.Registry) {
	t.Helper()

	backend := cache.NewMemoryCache(nil)
	t.Cleanup(func() { backend.Close() })

	sessions, err := session.NewManager(&session.Config{
		Cache:  backend,
		Secret: "router-test-secret",
		Logger: quietLogger,
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metricsConfig := observability.DefaultMetricsConfig("kitchen")
	metricsConfig.Registerer = reg
	metricsConfig.Logger = quietLogger
	metrics := observability.NewMetrics(metricsConfig)

	h := handlers.NewHandler(handlers.Handler{
		Logger:  quietLogger,
		Metrics: metrics,
		Checker: setup.NewChecker(config.IntegrationsConfig{}),
		CSRF:    security.NewCSRFProtection(quietLogger),
	})

	r, err := SetupRoutes(&Config{
		Logger:   quietLogger,
		Handler:  h,
		Sessions: sessions,
		CSRF:     h.CSRF,
		Metrics:  metrics,
		Gatherer: reg,
		Health:   observability.NewHealth(quietLogger, time.Second),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv, reg
}

// browser keeps cookies between requests like a real tab would
type browser struct {
	t       *testing.T
	base    string
	client  *http.Client
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, base string) *browser {
	return &browser{
		t:    t,
		base: base,
		client: &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}},
		cookies: make(map[string]*http.Cookie),
	}
}

func (b *browser) do(method, path string, headers map[string]string) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequest(method, b.base+path, nil)
	require.NoError(b.t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	for _, c := range resp.Cookies() {
		b.cookies[c.Name] = c
	}

	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

func TestDashboardBannerFlow(t *testing.T) {
	srv, reg := newTestServer(t)
	b := newBrowser(t, srv.URL)

	resp, body := b.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="`+banner.ElementID+`"`)
	require.Contains(t, b.cookies, session.DefaultCookieName)

	match := csrfPattern.FindStringSubmatch(body)
	require.Len(t, match, 2, "page carries the csrf token for htmx")
	token := match[1]

	resp, _ = b.do(http.MethodPost, banner.DismissPath, map[string]string{"HX-Request": "true"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "writes need the csrf token")

	resp, body = b.do(http.MethodPost, banner.DismissPath, map[string]string{
		"HX-Request":   "true",
		"X-CSRF-Token": token,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)

	resp, body = b.do(http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, `id="`+banner.ElementID+`"`, "dismissed for the rest of the session")

	fresh := newBrowser(t, srv.URL)
	_, body = fresh.do(http.MethodGet, "/", nil)
	assert.Contains(t, body, `id="`+banner.ElementID+`"`, "a new session sees the banner again")

	_, metrics := b.do(http.MethodGet, "/metrics", nil)
	assert.Contains(t, metrics, "kitchen_dashboard_config_banner_dismissed_total 1")
	assert.Contains(t, metrics, `kitchen_http_requests_total{method="POST",route="POST /banner/dismiss",status="403"} 1`)

	count, err := testutil.GatherAndCount(reg, "kitchen_http_requests_total")
	require.NoError(t, err)
	assert.Positive(t, count)
}

func TestConfigureRedirectsWithHTMX(t *testing.T) {
	srv, _ := newTestServer(t)
	b := newBrowser(t, srv.URL)

	_, body := b.do(http.MethodGet, "/", nil)
	token := csrfPattern.FindStringSubmatch(body)[1]

	resp, _ := b.do(http.MethodPost, banner.ConfigurePath, map[string]string{
		"HX-Request":   "true",
		"X-CSRF-Token": token,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/setup", resp.Header.Get("HX-Redirect"))

	resp, body = b.do(http.MethodGet, "/setup", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "API Configuration")
}

func TestSidebarToggleThroughRouter(t *testing.T) {
	srv, _ := newTestServer(t)
	b := newBrowser(t, srv.URL)

	_, body := b.do(http.MethodGet, "/menu", nil)
	token := csrfPattern.FindStringSubmatch(body)[1]

	resp, body := b.do(http.MethodPost, sidebar.TogglePath, map[string]string{
		"HX-Request":     "true",
		"HX-Current-URL": srv.URL + "/menu",
		"X-CSRF-Token":   token,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `data-state="collapsed"`)

	_, body = b.do(http.MethodGet, "/menu", nil)
	assert.Contains(t, body, `data-state="collapsed"`, "collapse state persists across pages")
}

func TestUnknownPathIsNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := newBrowser(t, srv.URL).do(http.MethodGet, "/pantry", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOperationalRoutesSkipSessions(t *testing.T) {
	srv, _ := newTestServer(t)
	b := newBrowser(t, srv.URL)

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		resp, _ := b.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
	assert.NotContains(t, b.cookies, session.DefaultCookieName)
}

func TestAPIRoutes(t *testing.T) {
	srv, _ := newTestServer(t)
	b := newBrowser(t, srv.URL)

	resp, body := b.do(http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"unread_count":2`)

	resp, body = b.do(http.MethodGet, "/api/config/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"all_required":false`)
}

func TestRegisterRejectsConflicts(t *testing.T) {
	r := NewRouter(quietLogger)
	noop := func(w http.ResponseWriter, req *http.Request) {}

	require.NoError(t, r.Register(&Route{Method: http.MethodGet, Path: "/menu", HandlerFunc: noop}))

	err := r.Register(&Route{Method: "get", Path: "menu", HandlerFunc: noop})
	var conflict *RouteConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "GET /menu", conflict.NewRoute)

	assert.Error(t, r.Register(&Route{Method: http.MethodGet, Path: "/orders"}))
}

func TestRegisterGroupAppliesPrefixAndMiddlewares(t *testing.T) {
	r := NewRouter(quietLogger)

	var order []string
	mark := func(name string) MiddlewaresType {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	err := r.RegisterGroup(&RouteGroup{
		Prefix:      "/api/",
		Category:    "api",
		Middlewares: []MiddlewaresType{mark("group")},
		Routes: []*Route{{
			Method:      http.MethodGet,
			Path:        "/ping",
			Middlewares: []MiddlewaresType{mark("route")},
			HandlerFunc: func(w http.ResponseWriter, req *http.Request) { order = append(order, "handler") },
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /api/ping"}, r.Routes())

	r.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, "group,route,handler", strings.Join(order, ","))
}

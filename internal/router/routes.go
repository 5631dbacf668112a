package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"kitchen_dashboard/internal/banner"
	"kitchen_dashboard/internal/cache"
	"kitchen_dashboard/internal/handlers"
	"kitchen_dashboard/internal/handlers/api"
	"kitchen_dashboard/internal/handlers/pages"
	"kitchen_dashboard/internal/middlewares"
	"kitchen_dashboard/internal/observability"
	"kitchen_dashboard/internal/security"
	"kitchen_dashboard/internal/session"
	"kitchen_dashboard/internal/sidebar"
)

// Config holds everything SetupRoutes wires into the HTTP surface
type Config struct {
	Logger   *slog.Logger
	Handler  *handlers.Handler
	Sessions *session.Manager
	CSRF     *security.CSRFProtection
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Health   *observability.Health

	// ResponseCache holds shared notification responses for ResponseCacheTTL
	ResponseCache    cache.Cache
	ResponseCacheTTL time.Duration

	// Production enables HSTS preload and hides panic details
	Production bool
}

// SetupRoutes builds the dashboard router
func SetupRoutes(cfg *Config) (*Router, error) {
	if cfg == nil || cfg.Handler == nil || cfg.Sessions == nil {
		return nil, fmt.Errorf("router config requires a handler and a session manager")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hsts := middlewares.HSTS
	if cfg.Production {
		hsts = middlewares.ProductionHSTS
	}

	loggerConfig := middlewares.DefaultLoggerConfig()
	loggerConfig.Logger = logger

	timeoutConfig := middlewares.DefaultTimeoutConfig()
	timeoutConfig.Logger = logger

	global := []MiddlewaresType{
		middlewares.Recovery(&middlewares.RecoveryConfig{Logger: logger, Development: !cfg.Production}),
		observability.RequestID(logger),
		middlewares.Logger(loggerConfig),
	}
	if cfg.Metrics != nil {
		global = append(global, cfg.Metrics.Middleware)
	}
	global = append(global,
		middlewares.Security(hsts),
		middlewares.Timeout(timeoutConfig),
	)

	r := NewRouter(logger, global...)

	dashboard := []MiddlewaresType{cfg.Sessions.Middleware}
	if cfg.CSRF != nil {
		dashboard = append(dashboard, cfg.CSRF.Middleware)
	}

	responseCacheConfig := cache.DefaultCacheMiddlewareConfig()
	responseCacheConfig.Cache = cfg.ResponseCache
	responseCacheConfig.DefaultTTL = cfg.ResponseCacheTTL
	responseCacheConfig.Logger = logger
	shared := []MiddlewaresType{cache.CacheMiddleware(responseCacheConfig)}

	health := cfg.Health
	if health == nil {
		health = observability.NewHealth(logger, 0)
	}

	pageHandler := pages.NewPageHandler(cfg.Handler)
	apiHandler := api.NewAPIHandler(cfg.Handler)

	groups := []*RouteGroup{
		{
			Category:    "pages",
			RouterType:  RouterTypePage,
			Middlewares: dashboard,
			Routes: []*Route{
				{Method: http.MethodGet, Path: "/{$}", HandlerFunc: pageHandler.Section},
				{Method: http.MethodGet, Path: "/menu", HandlerFunc: pageHandler.Section},
				{Method: http.MethodGet, Path: "/orders", HandlerFunc: pageHandler.Section},
				{Method: http.MethodGet, Path: "/bulk-orders", HandlerFunc: pageHandler.Section},
				{Method: http.MethodGet, Path: "/notifications", HandlerFunc: pageHandler.Notifications},
				{Method: http.MethodGet, Path: cfg.Handler.SetupPath, HandlerFunc: pageHandler.Setup},
			},
		},
		{
			Category:    "components",
			RouterType:  RouterTypePage,
			Middlewares: dashboard,
			Routes: []*Route{
				{Method: http.MethodPost, Path: banner.DismissPath, HandlerFunc: pageHandler.DismissBanner},
				{Method: http.MethodPost, Path: banner.ConfigurePath, HandlerFunc: pageHandler.ConfigureBanner},
				{Method: http.MethodPost, Path: sidebar.TogglePath, HandlerFunc: pageHandler.ToggleSidebar},
				{Method: http.MethodGet, Path: "/fragments/notifications", HandlerFunc: pageHandler.NotificationsFragment, Middlewares: shared},
			},
		},
		{
			Category:    "api",
			RouterType:  RouterTypeAPI,
			Middlewares: dashboard,
			Routes: []*Route{
				{Method: http.MethodGet, Path: "/api/notifications", HandlerFunc: apiHandler.ListNotifications, Middlewares: shared},
				{Method: http.MethodGet, Path: "/api/config/status", HandlerFunc: apiHandler.ConfigStatus},
				{Method: http.MethodGet, Path: "/notifications/export", HandlerFunc: apiHandler.ExportNotifications},
			},
		},
		{
			Category:   "operations",
			RouterType: RouterTypeOps,
			Routes: []*Route{
				{Method: http.MethodGet, Path: "/health", HandlerFunc: health.Handler},
				{Method: http.MethodGet, Path: "/ready", HandlerFunc: health.Ready},
				{Method: http.MethodGet, Path: "/live", HandlerFunc: health.Live},
				{Method: http.MethodGet, Path: "/metrics", Handler: observability.MetricsHandler(cfg.Gatherer)},
			},
		},
	}

	for _, group := range groups {
		if err := r.RegisterGroup(group); err != nil {
			return nil, err
		}
	}

	logger.Info("routes registered", "count", len(r.Routes()))
	return r, nil
}

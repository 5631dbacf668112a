package observability

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig holds configuration for Prometheus metrics middleware
type MetricsConfig struct {
	// Logger for structured logging
	Logger *slog.Logger

	// Namespace for metrics (e.g., "kitchen")
	Namespace string

	// Subsystem for HTTP metrics
	Subsystem string

	// Buckets for response time histogram
	Buckets []float64

	// Registerer receives the collectors; nil means the default registry
	Registerer prometheus.Registerer

	// Skipper defines a function to skip middleware
	Skipper func(r *http.Request) bool

	// SkipPaths defines paths that should not be metered
	SkipPaths []string
}

// Metrics holds Prometheus metric collectors
type Metrics struct {
	config *MetricsConfig
	logger *slog.Logger

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	responseSize    *prometheus.HistogramVec
	activeRequests  prometheus.Gauge

	bannerShown         prometheus.Counter
	bannerDismissed     prometheus.Counter
	bannerStatusErrors  prometheus.Counter
	notificationLoads   *prometheus.CounterVec
	notificationsUnread prometheus.Histogram
	sidebarToggles      *prometheus.CounterVec
}

// DefaultMetricsConfig returns a default metrics configuration
func DefaultMetricsConfig(namespace string) *MetricsConfig {
	return &MetricsConfig{
		Namespace: namespace,
		Subsystem: "http",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		SkipPaths: []string{"/metrics", "/health", "/live", "/ready"},
	}
}

// NewMetrics creates and registers Prometheus metrics
func NewMetrics(config *MetricsConfig) *Metrics {
	if config == nil {
		config = DefaultMetricsConfig("kitchen")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := config.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	logger.Info("initializing prometheus metrics",
		"namespace", config.Namespace,
		"subsystem", config.Subsystem,
	)

	return &Metrics{
		config: config,
		logger: logger,

		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   config.Buckets,
			},
			[]string{"method", "route", "status"},
		),
		responseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "route", "status"},
		),
		activeRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "requests_active",
				Help:      "Number of active HTTP requests",
			},
		),

		bannerShown: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: "dashboard",
				Name:      "config_banner_shown_total",
				Help:      "Pages rendered with the API configuration banner visible",
			},
		),
		bannerDismissed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: "dashboard",
				Name:      "config_banner_dismissed_total",
				Help:      "API configuration banner dismissals",
			},
		),
		bannerStatusErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: "dashboard",
				Name:      "config_banner_errors_total",
				Help:      "Banner initializations that failed and fell back to hidden",
			},
		),
		notificationLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: "dashboard",
				Name:      "notification_loads_total",
				Help:      "Notification provider reads by outcome",
			},
			[]string{"outcome"},
		),
		notificationsUnread: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: config.Namespace,
				Subsystem: "dashboard",
				Name:      "notifications_unread",
				Help:      "Unread notification count per rendered badge",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
		),
		sidebarToggles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: "dashboard",
				Name:      "sidebar_toggles_total",
				Help:      "Sidebar collapse toggles by resulting state",
			},
			[]string{"state"},
		),
	}
}

// BannerShown counts a page rendered with the banner visible
func (m *Metrics) BannerShown() { m.bannerShown.Inc() }

// BannerDismissed counts a dismissal
func (m *Metrics) BannerDismissed() { m.bannerDismissed.Inc() }

// BannerError counts a failed banner initialization
func (m *Metrics) BannerError() { m.bannerStatusErrors.Inc() }

// NotificationsLoaded records a provider read and the resulting unread count
func (m *Metrics) NotificationsLoaded(err error, unread int) {
	if err != nil {
		m.notificationLoads.WithLabelValues("error").Inc()
		return
	}
	m.notificationLoads.WithLabelValues("ok").Inc()
	m.notificationsUnread.Observe(float64(unread))
}

// SidebarToggled counts a collapse toggle
func (m *Metrics) SidebarToggled(state string) {
	m.sidebarToggles.WithLabelValues(state).Inc()
}

// Middleware returns a Prometheus metrics middleware
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.config.Skipper != nil && m.config.Skipper(r) {
			next.ServeHTTP(w, r)
			return
		}

		if slices.Contains(m.config.SkipPaths, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		m.activeRequests.Inc()
		defer m.activeRequests.Dec()

		start := time.Now()
		rw := &metricsResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		ctx, tag := withRouteTag(r.Context())
		r = r.WithContext(ctx)

		next.ServeHTTP(rw, r)

		// raw paths would explode label cardinality
		route := *tag
		if route == "" {
			route = r.Pattern
		}
		if route == "" {
			route = "unmatched"
		}

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		m.requestsTotal.WithLabelValues(r.Method, route, status).Inc()
		m.requestDuration.WithLabelValues(r.Method, route, status).Observe(duration)
		m.responseSize.WithLabelValues(r.Method, route, status).Observe(float64(rw.bytesWritten))
	})
}

type routeTagKey struct{}

func withRouteTag(ctx context.Context) (context.Context, *string) {
	tag := new(string)
	return context.WithValue(ctx, routeTagKey{}, tag), tag
}

// TagRoute records the matched mux pattern for the metrics middleware. Middlewares
// that copy the request hide r.Pattern from outer handlers, so routes call this.
func TagRoute(r *http.Request) {
	if tag, ok := r.Context().Value(routeTagKey{}).(*string); ok && r.Pattern != "" {
		*tag = r.Pattern
	}
}

// metricsResponseWriter wraps http.ResponseWriter to capture status code and bytes written
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *metricsResponseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// MetricsHandler returns a Prometheus metrics HTTP handler for gatherer
// Endpoint: GET /metrics
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"kitchen_dashboard/internal/observability"
)

// RouterType defines the type of router for logical separation
type RouterType string

const (
	RouterTypeAPI  RouterType = "api"  // JSON and file responses
	RouterTypePage RouterType = "page" // HTML pages and fragments
	RouterTypeOps  RouterType = "ops"  // health, readiness and metrics
)

// MiddlewaresType defines the middleware function signature
type MiddlewaresType func(http.Handler) http.Handler

// Route represents a single HTTP route
type Route struct {
	Method      string
	Path        string
	HandlerFunc http.HandlerFunc
	Handler     http.Handler // used when HandlerFunc is nil
	Middlewares []MiddlewaresType
	Category    string
	RouterType  RouterType
}

// RouteGroup represents a group of routes with shared configuration
type RouteGroup struct {
	Prefix      string
	Middlewares []MiddlewaresType
	Routes      []*Route
	Category    string
	RouterType  RouterType
}

// CompiledRoute is a registered route kept for introspection and conflict detection
type CompiledRoute struct {
	Pattern      string // "METHOD /path"
	Category     string
	RouterType   RouterType
	RegisteredAt time.Time
}

// RouteConflictError represents a route registration conflict
type RouteConflictError struct {
	NewRoute      string
	ExistingRoute string
	Message       string
}

func (e *RouteConflictError) Error() string {
	return fmt.Sprintf("route conflict: %s conflicts with existing route %s - %s",
		e.NewRoute, e.ExistingRoute, e.Message)
}

// Router wraps http.ServeMux with route groups, global middlewares and conflict detection
type Router struct {
	mux               *http.ServeMux
	logger            *slog.Logger
	globalMiddlewares []MiddlewaresType

	mu     sync.RWMutex
	routes map[string]*CompiledRoute
}

// NewRouter creates a router. Global middlewares wrap the whole mux, so unmatched
// requests pass through them too; the first one listed is outermost.
func NewRouter(logger *slog.Logger, globalMiddlewares ...MiddlewaresType) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		mux:               http.NewServeMux(),
		logger:            logger,
		globalMiddlewares: globalMiddlewares,
		routes:            make(map[string]*CompiledRoute),
	}
}

// Register registers a single route
func (r *Router) Register(route *Route) error {
	if route == nil {
		return fmt.Errorf("route is nil")
	}

	handler := route.Handler
	if route.HandlerFunc != nil {
		handler = route.HandlerFunc
	}
	if handler == nil {
		return fmt.Errorf("route %s %s has no handler", route.Method, route.Path)
	}

	pattern := sanitizePath(route.Path)
	if route.Method != "" {
		pattern = strings.ToUpper(route.Method) + " " + pattern
	}

	r.mu.Lock()
	if existing, ok := r.routes[pattern]; ok {
		r.mu.Unlock()
		return &RouteConflictError{
			NewRoute:      pattern,
			ExistingRoute: existing.Pattern,
			Message:       fmt.Sprintf("registered at %s", existing.RegisteredAt.Format(time.RFC3339)),
		}
	}
	r.routes[pattern] = &CompiledRoute{
		Pattern:      pattern,
		Category:     route.Category,
		RouterType:   route.RouterType,
		RegisteredAt: time.Now(),
	}
	r.mu.Unlock()

	r.mux.Handle(pattern, tagRoute(chainMiddlewares(handler, route.Middlewares)))

	r.logger.Debug("route registered", "pattern", pattern, "type", route.RouterType, "category", route.Category)
	return nil
}

// RegisterGroup registers a group of routes with shared prefix and middlewares
func (r *Router) RegisterGroup(group *RouteGroup) error {
	if group == nil {
		return nil
	}

	for _, route := range group.Routes {
		if route.Category == "" {
			route.Category = group.Category
		}
		if route.RouterType == "" {
			route.RouterType = group.RouterType
		}

		if group.Prefix != "" {
			prefix := strings.TrimSuffix(group.Prefix, "/")
			route.Path = prefix + "/" + strings.TrimPrefix(route.Path, "/")
		}

		if len(group.Middlewares) > 0 {
			route.Middlewares = append(append([]MiddlewaresType{}, group.Middlewares...), route.Middlewares...)
		}

		if err := r.Register(route); err != nil {
			return err
		}
	}

	r.logger.Debug("route group registered", "category", group.Category, "prefix", group.Prefix, "routes", len(group.Routes))
	return nil
}

// Routes returns the registered patterns in sorted order
func (r *Router) Routes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patterns := make([]string, 0, len(r.routes))
	for pattern := range r.routes {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	return patterns
}

// Handler returns the mux wrapped in the global middlewares
func (r *Router) Handler() http.Handler {
	return chainMiddlewares(r.mux, r.globalMiddlewares)
}

// chainMiddlewares applies middlewares in reverse order so the first wraps everything
func chainMiddlewares(handler http.Handler, middlewares []MiddlewaresType) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// tagRoute exposes the matched pattern to the metrics middleware
func tagRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		observability.TagRoute(req)
		next.ServeHTTP(w, req)
	})
}

// sanitizePath cleans a route path while keeping ServeMux wildcards and the "{$}" anchor
func sanitizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

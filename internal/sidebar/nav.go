package sidebar

import (
	"net/http"
	"strings"
)

// NavItem is one link in the sidebar
type NavItem struct {
	Title string
	URL   string
	Icon  string
	// Exact items only match their own path, never nested routes
	Exact bool
}

// DefaultItems are the dashboard sections in display order
func DefaultItems() []NavItem {
	return []NavItem{
		{Title: "Home", URL: "/", Icon: "home", Exact: true},
		{Title: "Menu", URL: "/menu", Icon: "file-text"},
		{Title: "Orders", URL: "/orders", Icon: "inbox"},
		{Title: "Bulk Orders", URL: "/bulk-orders", Icon: "package"},
		{Title: "Notifications", URL: "/notifications", Icon: "bell"},
	}
}

// IsActive reports whether item should be highlighted for path
func IsActive(item NavItem, path string) bool {
	if path == "" || item.URL == "" {
		return false
	}
	if item.URL == path {
		return true
	}
	if item.Exact || item.URL == "/" {
		return false
	}
	return strings.HasPrefix(path, item.URL+"/")
}

// ActiveIndex returns the index of the first active item, or -1
func ActiveIndex(items []NavItem, path string) int {
	for i, item := range items {
		if IsActive(item, path) {
			return i
		}
	}
	return -1
}

// CollapseState is the sidebar display mode; anything but Collapsed renders expanded
type CollapseState string

const (
	Collapsed CollapseState = "collapsed"
	Expanded  CollapseState = "expanded"
)

// StateCookie holds the collapse state between requests
const StateCookie = "sidebar_state"

// TogglePath is the route flipping the collapse state
const TogglePath = "/sidebar/toggle"

// IsCollapsed reports whether the sidebar shows icons only
func (s CollapseState) IsCollapsed() bool {
	return s == Collapsed
}

// Toggle returns the opposite state
func (s CollapseState) Toggle() CollapseState {
	if s.IsCollapsed() {
		return Expanded
	}
	return Collapsed
}

// StateFromRequest reads the collapse state cookie
func StateFromRequest(r *http.Request) CollapseState {
	c, err := r.Cookie(StateCookie)
	if err != nil || CollapseState(c.Value) != Collapsed {
		return Expanded
	}
	return Collapsed
}

// StateCookieFor builds the cookie persisting state
func StateCookieFor(state CollapseState, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     StateCookie,
		Value:    string(state),
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 365,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

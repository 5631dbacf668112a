package sidebar

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsActive(t *testing.T) {
	home := NavItem{Title: "Home", URL: "/", Exact: true}
	menu := NavItem{Title: "Menu", URL: "/menu"}

	tests := []struct {
		name string
		item NavItem
		path string
		want bool
	}{
		{"root exact", home, "/", true},
		{"root never prefix matches", home, "/menu", false},
		{"item exact", menu, "/menu", true},
		{"item nested", menu, "/menu/42/edit", true},
		{"item trailing slash", menu, "/menu/", true},
		{"item sibling with shared prefix", menu, "/menu-archive", false},
		{"unrelated", menu, "/orders", false},
		{"empty path", menu, "", false},
		{"exact item rejects nested", NavItem{URL: "/orders", Exact: true}, "/orders/1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActive(tt.item, tt.path))
		})
	}
}

func TestAtMostOneActiveItem(t *testing.T) {
	items := DefaultItems()
	paths := []string{"/", "/menu", "/orders", "/orders/17", "/bulk-orders", "/bulk-orders/new", "/notifications", "/setup", "/unknown/deep"}

	for _, path := range paths {
		active := 0
		for _, item := range items {
			if IsActive(item, path) {
				active++
			}
		}
		assert.LessOrEqual(t, active, 1, path)
	}

	assert.Equal(t, 0, ActiveIndex(items, "/"))
	assert.Equal(t, 2, ActiveIndex(items, "/orders/17"))
	assert.Equal(t, 3, ActiveIndex(items, "/bulk-orders"))
	assert.Equal(t, -1, ActiveIndex(items, "/setup"))
}

func renderSidebar(t *testing.T, path string, state CollapseState) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, New().Render(path, state).Render(&sb))
	return sb.String()
}

func TestRenderActiveClassesAreExclusive(t *testing.T) {
	out := renderSidebar(t, "/orders", Expanded)

	assert.Equal(t, 1, strings.Count(out, "nav-active"))
	assert.Equal(t, 4, strings.Count(out, "nav-inactive"))
	assert.Equal(t, 1, strings.Count(out, `aria-current="page"`))
	assert.Contains(t, out, `<a href="/orders" class="nav-active`)

	out = renderSidebar(t, "/setup", Expanded)
	assert.NotContains(t, out, "nav-active")
	assert.Equal(t, 5, strings.Count(out, "nav-inactive"))
}

func TestRenderRootOnlyActivatesHome(t *testing.T) {
	out := renderSidebar(t, "/", Expanded)
	assert.Contains(t, out, `<a href="/" class="nav-active`)
	assert.Contains(t, out, `<a href="/menu" class="nav-inactive`)

	out = renderSidebar(t, "/menu", Expanded)
	assert.Contains(t, out, `<a href="/" class="nav-inactive`)
}

func TestRenderExpandedShowsLabels(t *testing.T) {
	out := renderSidebar(t, "/", Expanded)

	assert.Equal(t, 5, strings.Count(out, "sidebar-label"))
	assert.Contains(t, out, "Bulk Orders")
	assert.Contains(t, out, "Kitchen Dashboard")
	assert.Contains(t, out, "Restaurant Management")
}

func TestRenderCollapsedShowsIconsOnly(t *testing.T) {
	out := renderSidebar(t, "/", Collapsed)

	assert.NotContains(t, out, "sidebar-label")
	assert.NotContains(t, out, "sidebar-header")
	for _, item := range DefaultItems() {
		assert.NotContains(t, out, ">"+item.Title+"<")
	}
	assert.NotContains(t, out, "Restaurant Management")
	assert.Contains(t, out, `data-state="collapsed"`)
	assert.Equal(t, 5, strings.Count(out, "<a href="))
}

func TestUnknownStateRendersExpanded(t *testing.T) {
	out := renderSidebar(t, "/", CollapseState("half-open"))
	assert.Equal(t, 5, strings.Count(out, "sidebar-label"))
}

func TestStateFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, Expanded, StateFromRequest(req))

	req.AddCookie(StateCookieFor(Collapsed, false))
	assert.Equal(t, Collapsed, StateFromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: StateCookie, Value: "sideways"})
	assert.Equal(t, Expanded, StateFromRequest(req))
}

func TestToggle(t *testing.T) {
	assert.Equal(t, Collapsed, Expanded.Toggle())
	assert.Equal(t, Expanded, Collapsed.Toggle())
	assert.Equal(t, Collapsed, CollapseState("").Toggle())
}

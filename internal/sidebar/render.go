package sidebar

import (
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/xraph/forgeui/icons"
)

// ElementID is the DOM id swapped when the sidebar is toggled
const ElementID = "app-sidebar"

const (
	activeClass   = "nav-active flex items-center gap-3 rounded-md bg-primary px-3 py-2 text-sm font-medium text-primary-foreground"
	inactiveClass = "nav-inactive flex items-center gap-3 rounded-md px-3 py-2 text-sm text-muted-foreground hover:bg-accent hover:text-accent-foreground"
)

// Sidebar renders the navigation over a fixed item list
type Sidebar struct {
	items []NavItem
}

// New creates a sidebar; with no items it uses DefaultItems
func New(items ...NavItem) *Sidebar {
	if len(items) == 0 {
		items = DefaultItems()
	}
	return &Sidebar{items: items}
}

// Items returns the navigation items
func (s *Sidebar) Items() []NavItem {
	return s.items
}

// Render draws the sidebar for the current path and collapse state
func (s *Sidebar) Render(path string, state CollapseState) g.Node {
	collapsed := state.IsCollapsed()
	active := ActiveIndex(s.items, path)

	width := "w-64"
	if collapsed {
		width = "w-16"
	}

	links := make([]g.Node, 0, len(s.items))
	for i, item := range s.items {
		links = append(links, html.Li(navLink(item, i == active, collapsed)))
	}

	return html.Aside(
		html.ID(ElementID),
		g.Attr("data-state", string(state)),
		html.Class("flex h-screen shrink-0 flex-col border-r bg-sidebar transition-all "+width),

		header(collapsed),

		html.Nav(
			html.Class("flex-1 px-2 py-4"),
			html.Ul(html.Class("space-y-1"), g.Group(links)),
		),

		html.Div(
			html.Class("border-t p-2"),
			html.Button(
				html.Type("button"),
				html.Class("inline-flex h-9 w-9 items-center justify-center rounded-md hover:bg-accent"),
				g.Attr("hx-post", TogglePath),
				g.Attr("hx-target", "#"+ElementID),
				g.Attr("hx-swap", "outerHTML"),
				g.Attr("aria-label", "Toggle sidebar"),
				icons.Menu(icons.WithSize(18)),
			),
		),
	)
}

func header(collapsed bool) g.Node {
	return html.Div(
		html.Class("flex h-14 items-center gap-2 border-b px-4"),
		icons.LayoutDashboard(icons.WithSize(22), icons.WithClass("text-primary")),
		g.If(!collapsed,
			html.Div(
				html.Class("sidebar-header"),
				html.Div(html.Class("text-sm font-semibold"), g.Text("Kitchen Dashboard")),
				html.Div(html.Class("text-xs text-muted-foreground"), g.Text("Restaurant Management")),
			),
		),
	)
}

func navLink(item NavItem, active, collapsed bool) g.Node {
	class := inactiveClass
	if active {
		class = activeClass
	}

	return html.A(
		html.Href(item.URL),
		html.Class(class),
		g.If(active, g.Attr("aria-current", "page")),
		navIcon(item.Icon),
		g.If(!collapsed,
			html.Span(html.Class("sidebar-label"), g.Text(item.Title)),
		),
	)
}

// navIcon maps an icon name to its icon node
func navIcon(name string) g.Node {
	size := icons.WithSize(18)

	switch name {
	case "home":
		return icons.Home(size)
	case "file-text":
		return icons.FileText(size)
	case "inbox":
		return icons.Inbox(size)
	case "package":
		return icons.Box(size)
	case "bell":
		return icons.Bell(size)
	default:
		return html.Span(
			html.Class("inline-flex h-[18px] w-[18px] items-center justify-center text-xs"),
			g.Text("•"),
		)
	}
}

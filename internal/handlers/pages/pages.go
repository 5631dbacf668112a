package pages

import (
	"net/http"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/xraph/forgeui/icons"

	"kitchen_dashboard/internal/handlers"
	"kitchen_dashboard/internal/notifications"
	"kitchen_dashboard/internal/setup"
	"kitchen_dashboard/internal/sidebar"
	"kitchen_dashboard/internal/ui"
)

// section describes the placeholder body of a dashboard section
var sections = map[string]string{
	"/":            "Today's service at a glance.",
	"/menu":        "Dishes, prices and availability.",
	"/orders":      "Incoming and in-progress orders.",
	"/bulk-orders": "Catering and bulk order requests.",
}

type PageHandler struct {
	h *handlers.Handler
}

func NewPageHandler(h *handlers.Handler) *PageHandler {
	return &PageHandler{h: h}
}

// Section renders one of the navigation sections
func (p *PageHandler) Section(w http.ResponseWriter, r *http.Request) {
	title := p.title(r.URL.Path)
	content := ui.Section(title, sections[r.URL.Path])

	p.h.RenderHTML(w, http.StatusOK, p.h.Shell(r, title, content))
}

// Notifications renders the full notification list
func (p *PageHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	list, err := p.h.Notifications.List(r.Context())
	if err != nil {
		p.h.Logger.Warn("notifications unavailable", "error", err)
	}

	content := html.Div(
		html.Class("space-y-4"),
		html.Div(
			html.Class("flex items-center justify-between"),
			ui.Section("Notifications", "Everything the kitchen has been told recently."),
			html.A(
				html.Href("/notifications/export"),
				html.Class("inline-flex items-center gap-1 rounded-md border px-3 py-1.5 text-sm hover:bg-accent"),
				icons.FileText(icons.WithSize(14)),
				g.Text("Export"),
			),
		),
		g.If(len(list) == 0, ui.EmptyState("No notifications")),
		g.If(len(list) > 0,
			html.Ul(
				html.Class("divide-y rounded-md border"),
				g.Map(list, notificationItem),
			),
		),
	)

	p.h.RenderHTML(w, http.StatusOK, p.h.Shell(r, "Notifications", content))
}

// Setup renders the credential status page
func (p *PageHandler) Setup(w http.ResponseWriter, r *http.Request) {
	status, err := p.h.Checker.Status(r.Context())
	if err != nil {
		p.h.Logger.Error("failed to read configuration status", "error", err)
		http.Error(w, "Configuration status unavailable", http.StatusServiceUnavailable)
		return
	}

	p.h.RenderHTML(w, http.StatusOK, p.h.Shell(r, "Setup", setup.Page(status)))
}

func (p *PageHandler) title(path string) string {
	items := p.h.Sidebar.Items()
	if i := sidebar.ActiveIndex(items, path); i >= 0 {
		return items[i].Title
	}
	return "Dashboard"
}

func notificationItem(n notifications.Notification) g.Node {
	return html.Li(
		html.Class("flex items-start gap-3 p-4"),
		g.If(n.Unread, html.Span(html.Class("mt-1.5 h-2 w-2 rounded-full bg-primary"))),
		html.Div(
			html.Class("flex-1 space-y-1"),
			html.P(
				g.If(n.Unread, html.Class("font-semibold")),
				g.Text(n.Title),
			),
			html.P(html.Class("text-sm text-muted-foreground"), g.Text(n.Message)),
		),
		html.Span(html.Class("text-xs text-muted-foreground"), g.Text(n.Time)),
	)
}

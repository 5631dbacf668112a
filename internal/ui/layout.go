package ui

import (
	"encoding/json"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// ContentID is the DOM id of the main content area
const ContentID = "content"

// Page is everything the shell needs to draw one dashboard page
type Page struct {
	Title      string
	CSRFHeader string
	CSRFToken  string

	Sidebar       g.Node
	Notifications g.Node
	Banner        g.Node
	Content       g.Node
}

// Layout renders the full HTML document around a page
func Layout(p Page) g.Node {
	return html.Doctype(
		html.HTML(
			html.Lang("en"),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
				html.TitleEl(g.Text(p.Title+" | Kitchen Dashboard")),
				html.Script(html.Src("https://cdn.tailwindcss.com")),
				html.StyleEl(g.Raw(`[x-cloak] { display: none !important; }`)),
				html.Script(
					g.Attr("src", "https://unpkg.com/htmx.org@2.0.4"),
					g.Attr("crossorigin", "anonymous"),
				),
				html.Script(
					g.Attr("defer", ""),
					g.Attr("src", "https://unpkg.com/alpinejs@3.14.8/dist/cdn.min.js"),
				),
			),
			html.Body(
				html.Class("min-h-screen bg-background text-foreground antialiased"),
				g.If(p.CSRFToken != "", g.Attr("hx-headers", csrfHeaders(p.CSRFHeader, p.CSRFToken))),
				html.Div(
					html.Class("flex"),
					p.Sidebar,
					html.Div(
						html.Class("flex min-h-screen flex-1 flex-col"),
						TopBar(p.Title, p.Notifications),
						p.Banner,
						html.Main(
							html.ID(ContentID),
							html.Class("flex-1 p-6"),
							p.Content,
						),
					),
				),
			),
		),
	)
}

// TopBar renders the page title and the notification badge
func TopBar(title string, notifications g.Node) g.Node {
	return html.Header(
		html.Class("sticky top-0 z-40 flex h-14 items-center gap-4 border-b bg-background/95 px-4"),
		html.H1(html.Class("flex-1 text-lg font-semibold"), g.Text(title)),
		html.Div(
			html.Class("flex items-center gap-2"),
			notifications,
		),
	)
}

func csrfHeaders(header, token string) string {
	if header == "" {
		header = "X-CSRF-Token"
	}
	b, _ := json.Marshal(map[string]string{header: token})
	return string(b)
}

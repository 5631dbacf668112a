package banner

import (
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/xraph/forgeui/icons"
)

// ElementID is the DOM id htmx swaps on dismissal
const ElementID = "api-config-banner"

// Render returns the banner markup, or nothing unless the banner is Visible
func (b *Banner) Render() g.Node {
	if !b.Visible() {
		return g.Group(nil)
	}

	return html.Div(
		html.ID(ElementID),
		g.Attr("role", "alert"),
		html.Class("flex items-start gap-3 border-b border-amber-300 bg-amber-50 px-4 py-3 text-amber-900"),
		icons.TriangleAlert(icons.WithSize(20), icons.WithClass("mt-0.5 shrink-0 text-amber-600")),
		html.Div(
			html.Class("flex-1 space-y-1"),
			html.P(html.Class("text-sm font-semibold"), g.Text("API configuration incomplete")),
			html.P(
				html.Class("text-sm"),
				g.Text("Some required API keys are missing, so related features will not work until they are configured."),
			),
			html.Div(
				html.Class("flex gap-2 pt-1"),
				html.Button(
					html.Type("button"),
					html.Class("rounded-md bg-amber-600 px-3 py-1 text-sm font-medium text-white hover:bg-amber-700"),
					g.Attr("hx-post", ConfigurePath),
					g.Text("Configure Now"),
				),
				dismissButton(
					html.Class("rounded-md border border-amber-300 px-3 py-1 text-sm hover:bg-amber-100"),
					g.Text("Dismiss"),
				),
			),
		),
		dismissButton(
			html.Class("rounded-md p-1 hover:bg-amber-100"),
			g.Attr("aria-label", "Close"),
			icons.X(icons.WithSize(16)),
		),
	)
}

func dismissButton(children ...g.Node) g.Node {
	return html.Button(
		html.Type("button"),
		g.Attr("hx-post", DismissPath),
		g.Attr("hx-target", "#"+ElementID),
		g.Attr("hx-swap", "outerHTML"),
		g.Group(children),
	)
}

package setup

import (
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/xraph/forgeui/icons"
)

// Page renders the credential status page body
func Page(status Status) g.Node {
	return html.Section(
		html.Class("space-y-6"),
		html.Div(
			html.Class("flex items-center gap-2"),
			icons.Settings(icons.WithSize(20)),
			html.H1(html.Class("text-2xl font-semibold"), g.Text("API Configuration")),
		),
		g.If(status.AllRequired,
			html.P(html.Class("text-sm text-muted-foreground"), g.Text("All required integrations are configured.")),
		),
		g.If(!status.AllRequired,
			html.P(
				html.Class("text-sm text-amber-700"),
				g.Textf("%d required credential(s) missing. Set them in the server environment or run configure-integrations.", len(status.Missing)),
			),
		),
		html.Table(
			html.Class("w-full text-sm"),
			html.THead(
				html.Tr(
					html.Th(html.Class("text-left"), g.Text("Integration")),
					html.Th(html.Class("text-left"), g.Text("Variable")),
					html.Th(html.Class("text-left"), g.Text("Required")),
					html.Th(html.Class("text-left"), g.Text("Status")),
				),
			),
			html.TBody(
				g.Map(status.Credentials, credentialRow),
			),
		),
	)
}

func credentialRow(c Credential) g.Node {
	required := "Optional"
	if c.Required {
		required = "Required"
	}

	return html.Tr(
		html.Td(
			html.Div(html.Class("font-medium"), g.Text(c.Name)),
			html.Div(html.Class("text-xs text-muted-foreground"), g.Text(c.Description)),
		),
		html.Td(html.Code(g.Text(c.EnvVar))),
		html.Td(g.Text(required)),
		html.Td(statusPill(c.Configured)),
	)
}

func statusPill(configured bool) g.Node {
	if configured {
		return html.Span(html.Class("rounded-full bg-green-100 px-2 py-0.5 text-green-800"), g.Text("Configured"))
	}
	return html.Span(html.Class("rounded-full bg-red-100 px-2 py-0.5 text-red-800"), g.Text("Missing"))
}

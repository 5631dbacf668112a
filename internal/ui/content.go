package ui

import (
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/xraph/forgeui/icons"
)

// Section renders the placeholder body of a dashboard section
func Section(title, description string) g.Node {
	return html.Section(
		html.Class("space-y-2"),
		html.H2(html.Class("text-2xl font-semibold"), g.Text(title)),
		html.P(html.Class("text-sm text-muted-foreground"), g.Text(description)),
	)
}

// EmptyState renders a centered icon and message
func EmptyState(message string) g.Node {
	return html.Div(
		html.Class("flex flex-col items-center justify-center gap-2 py-12 text-muted-foreground"),
		icons.Inbox(icons.WithSize(32)),
		html.P(html.Class("text-sm"), g.Text(message)),
	)
}

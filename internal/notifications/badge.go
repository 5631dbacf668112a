package notifications

import (
	"context"
	"strconv"
	"sync"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/xraph/forgeui/icons"
)

// Badge is the bell button with its unread counter and dropdown list.
// It reads its provider once; the list is never mutated afterwards.
type Badge struct {
	provider Provider

	once  sync.Once
	items []Notification
	err   error
}

// NewBadge creates a badge over provider
func NewBadge(provider Provider) *Badge {
	return &Badge{provider: provider}
}

// Load fetches the notifications. Only the first call reaches the provider.
func (b *Badge) Load(ctx context.Context) error {
	b.once.Do(func() {
		b.items, b.err = b.provider.List(ctx)
		if b.err != nil {
			b.items = nil
		}
	})
	return b.err
}

// Notifications returns the loaded list
func (b *Badge) Notifications() []Notification {
	return b.items
}

// UnreadCount counts unread entries of the loaded list
func (b *Badge) UnreadCount() int {
	return UnreadCount(b.items)
}

// Render renders the bell, the counter when anything is unread, and the dropdown panel
func (b *Badge) Render() g.Node {
	count := b.UnreadCount()

	return html.Div(
		html.ID("notification-badge"),
		html.Class("relative"),
		g.Attr("x-data", "{ open: false }"),
		g.Attr("@keydown.escape.window", "open = false"),

		html.Button(
			html.Type("button"),
			html.Class("relative inline-flex h-9 w-9 items-center justify-center rounded-md hover:bg-accent"),
			g.Attr("@click", "open = !open"),
			g.Attr("aria-label", "Notifications"),
			icons.Bell(icons.WithSize(18)),
			g.If(count > 0,
				html.Span(
					html.Class("notification-count absolute -top-1 -right-1 flex h-4 min-w-4 items-center justify-center rounded-full bg-destructive px-1 text-[10px] font-bold text-destructive-foreground"),
					g.Text(strconv.Itoa(count)),
				),
			),
		),

		html.Div(
			html.Class("absolute right-0 z-50 mt-2 w-80 rounded-md border bg-popover shadow-md"),
			g.Attr("x-show", "open"),
			g.Attr("x-cloak", ""),
			g.Attr("@click.outside", "open = false"),
			html.Div(
				html.Class("border-b px-4 py-2 text-sm font-semibold"),
				g.Text("Notifications"),
			),
			b.list(),
		),
	)
}

func (b *Badge) list() g.Node {
	if len(b.items) == 0 {
		return html.P(
			html.Class("notification-empty px-4 py-6 text-center text-sm text-muted-foreground"),
			g.Text("No notifications"),
		)
	}

	return html.Ul(
		html.Class("max-h-96 overflow-y-auto"),
		g.Map(b.items, row),
	)
}

func row(n Notification) g.Node {
	titleClass := "text-sm text-muted-foreground"
	if n.Unread {
		titleClass = "text-sm font-semibold"
	}

	return html.Li(
		html.Class("notification-row flex gap-3 border-b px-4 py-3 last:border-0"),
		g.Attr("data-notification-id", strconv.Itoa(n.ID)),
		html.Div(
			html.Class("flex-1 space-y-1"),
			html.Div(
				html.Class("flex items-center gap-2"),
				html.Span(html.Class(titleClass), g.Text(n.Title)),
				g.If(n.Unread,
					html.Span(html.Class("notification-dot h-2 w-2 rounded-full bg-primary")),
				),
			),
			html.P(html.Class("text-xs text-muted-foreground"), g.Text(n.Message)),
			html.Div(
				html.Class("flex items-center gap-1 text-xs text-muted-foreground"),
				icons.Clock(icons.WithSize(12)),
				g.Text(n.Time),
			),
		),
	)
}

package notifications

import (
	"context"
	"slices"
)

// StaticProvider serves a fixed list, used when no database is configured
type StaticProvider struct {
	items []Notification
}

// NewStaticProvider returns a provider over items; nil items means the default kitchen feed
func NewStaticProvider(items []Notification) *StaticProvider {
	if items == nil {
		items = DefaultNotifications()
	}
	return &StaticProvider{items: items}
}

// List returns a copy of the fixed list
func (p *StaticProvider) List(ctx context.Context) ([]Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(p.items), nil
}

// DefaultNotifications is the demo feed shown on a fresh install
func DefaultNotifications() []Notification {
	return []Notification{
		{ID: 1, Title: "New Order Received", Message: "Order #1042 is waiting for confirmation", Time: "2 min ago", Unread: true},
		{ID: 2, Title: "Low Stock Alert", Message: "Basmati rice is below the reorder level", Time: "1 hour ago", Unread: true},
		{ID: 3, Title: "Bulk Order Confirmed", Message: "Catering order for 120 guests was confirmed", Time: "3 hours ago", Unread: false},
	}
}

package notifications

import (
	"context"
	"fmt"
	"time"
)

// Notification is one entry in the notification dropdown
type Notification struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Time    string `json:"time"`
	Unread  bool   `json:"unread"`
}

// Provider supplies the notifications shown by a badge
type Provider interface {
	List(ctx context.Context) ([]Notification, error)
}

// UnreadCount counts the notifications still marked unread
func UnreadCount(list []Notification) int {
	count := 0
	for _, n := range list {
		if n.Unread {
			count++
		}
	}
	return count
}

// TimeAgo formats t relative to now the way the kitchen staff sees it
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	default:
		return t.Format("Jan 02, 2006")
	}
}

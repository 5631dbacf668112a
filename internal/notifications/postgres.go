package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the provider needs
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresProvider reads the latest rows of the notifications table
type PostgresProvider struct {
	db     Querier
	limit  int
	now    func() time.Time
	logger *slog.Logger
}

// NewPostgresProvider creates a provider reading at most limit rows
func NewPostgresProvider(db Querier, limit int, logger *slog.Logger) *PostgresProvider {
	if logger == nil {
		logger = slog.Default()
	}
	if limit <= 0 {
		limit = 20
	}
	return &PostgresProvider{
		db:     db,
		limit:  limit,
		now:    time.Now,
		logger: logger,
	}
}

const listNotificationsSQL = `
SELECT notification_id, subject, message, time, status
FROM notifications
ORDER BY time DESC
LIMIT $1`

// record mirrors a notifications table row
type record struct {
	ID      int32
	Subject string
	Message string
	Time    time.Time
	Status  string
}

// List queries the newest notifications
func (p *PostgresProvider) List(ctx context.Context) ([]Notification, error) {
	rows, err := p.db.Query(ctx, listNotificationsSQL, p.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	now := p.now()
	var list []Notification
	for rows.Next() {
		var rec record
		if err := rows.Scan(&rec.ID, &rec.Subject, &rec.Message, &rec.Time, &rec.Status); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		list = append(list, rec.toNotification(now))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}

	p.logger.Debug("notifications loaded", "count", len(list))
	return list, nil
}

func (r record) toNotification(now time.Time) Notification {
	return Notification{
		ID:      int(r.ID),
		Title:   r.Subject,
		Message: r.Message,
		Time:    TimeAgo(r.Time, now),
		Unread:  r.Status == StatusUnread,
	}
}

// Row status values
const (
	StatusRead   = "Read"
	StatusUnread = "Unread"
)

// Execer runs statements without returning rows
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const createNotificationsSQL = `
CREATE TABLE IF NOT EXISTS notifications (
	notification_id SERIAL PRIMARY KEY,
	subject         VARCHAR(255) NOT NULL,
	message         TEXT NOT NULL DEFAULT '',
	time            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	status          VARCHAR(10) NOT NULL DEFAULT 'Unread' CHECK (status IN ('Read', 'Unread'))
);
CREATE INDEX IF NOT EXISTS notifications_time_idx ON notifications (time DESC);`

const insertNotificationSQL = `
INSERT INTO notifications (subject, message, time, status)
VALUES ($1, $2, NOW() - $3::interval, $4)`

// seed rows mirror the demo feed so a fresh database looks like the static source
var seed = []struct {
	subject, message, age, status string
}{
	{"New Order Received", "Order #1042 is waiting for confirmation", "2 minutes", StatusUnread},
	{"Low Stock Alert", "Basmati rice is below the reorder level", "1 hour", StatusUnread},
	{"Bulk Order Confirmed", "Catering order for 120 guests was confirmed", "3 hours", StatusRead},
}

// Migrate creates the notifications table. With withSeed it also inserts the demo rows.
func Migrate(ctx context.Context, db Execer, withSeed bool) (int64, error) {
	if _, err := db.Exec(ctx, createNotificationsSQL); err != nil {
		return 0, fmt.Errorf("failed to create notifications table: %w", err)
	}
	if !withSeed {
		return 0, nil
	}

	var inserted int64
	for _, s := range seed {
		tag, err := db.Exec(ctx, insertNotificationSQL, s.subject, s.message, s.age, s.status)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed notification %q: %w", s.subject, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

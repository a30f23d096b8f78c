package notification

import (
	"context"

	"sitestock/internal/core/id"
	"sitestock/pkg/logger"
)

// Dispatcher appends notifications and serves the per-user feed.
// Delivery to the UI is at-least-once; the read flag is the only mutation.
type Dispatcher struct {
	repo Repository
}

// NewDispatcher creates a notification dispatcher.
func NewDispatcher(repo Repository) *Dispatcher {
	return &Dispatcher{repo: repo}
}

// Emit appends a notification for userID.
func (d *Dispatcher) Emit(ctx context.Context, userID string, typ Type, message string) error {
	n := New(userID, typ, message)
	if err := n.Validate(ctx); err != nil {
		return err
	}
	if err := d.repo.Create(ctx, n); err != nil {
		return err
	}
	logger.Debug(ctx, "notification emitted", "id", n.ID, "user_id", userID, "type", typ)
	return nil
}

// MarkRead marks a notification read. Idempotent: marking an already-read
// notification is a no-op, not an error.
func (d *Dispatcher) MarkRead(ctx context.Context, notificationID id.ID) error {
	n, err := d.repo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.Read {
		return nil
	}
	return d.repo.MarkRead(ctx, notificationID)
}

// Feed returns the user's notifications, newest first.
func (d *Dispatcher) Feed(ctx context.Context, userID string, filter FeedFilter) ([]*Notification, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return d.repo.ListByUser(ctx, userID, filter)
}

// UnreadCount returns the number of unread notifications.
func (d *Dispatcher) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return d.repo.CountUnread(ctx, userID)
}

package notification

import (
	"context"

	"sitestock/internal/core/id"
)

// FeedFilter narrows the notification feed.
type FeedFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// Repository defines persistence for notifications. Appends are independent
// writes and may run fully concurrently.
type Repository interface {
	// Create appends a notification.
	Create(ctx context.Context, n *Notification) error

	// GetByID retrieves a notification.
	GetByID(ctx context.Context, id id.ID) (*Notification, error)

	// MarkRead flips the read flag. Marking an already-read notification
	// must not fail.
	MarkRead(ctx context.Context, id id.ID) error

	// ListByUser returns the user's notifications ordered by creation time,
	// newest first. No ordering is guaranteed across users.
	ListByUser(ctx context.Context, userID string, filter FeedFilter) ([]*Notification, error)

	// CountUnread returns the number of unread notifications for a user.
	CountUnread(ctx context.Context, userID string) (int64, error)
}

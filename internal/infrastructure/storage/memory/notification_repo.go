package memory

import (
	"context"
	"sort"
	"sync"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/domain/notification"
)

// NotificationRepository is an in-memory notification.Repository.
type NotificationRepository struct {
	mu   sync.RWMutex
	rows map[id.ID]*notification.Notification
}

// NewNotificationRepository creates an empty in-memory notification repository.
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{rows: make(map[id.ID]*notification.Notification)}
}

func copyNotification(n *notification.Notification) *notification.Notification {
	c := *n
	return &c
}

// Create appends a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[n.ID]; ok {
		return apperror.NewConflict("notification already exists").WithDetail("id", n.ID)
	}
	r.rows[n.ID] = copyNotification(n)
	return nil
}

// GetByID retrieves a notification.
func (r *NotificationRepository) GetByID(ctx context.Context, nID id.ID) (*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.rows[nID]
	if !ok {
		return nil, apperror.NewNotFound("notification", nID)
	}
	return copyNotification(n), nil
}

// MarkRead flips the read flag. Already-read rows pass through unchanged.
func (r *NotificationRepository) MarkRead(ctx context.Context, nID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.rows[nID]
	if !ok {
		return apperror.NewNotFound("notification", nID)
	}
	n.Read = true
	return nil
}

// ListByUser returns the user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, filter notification.FeedFilter) ([]*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*notification.Notification
	for _, n := range r.rows {
		if n.UserID != userID {
			continue
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		items = append(items, copyNotification(n))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return paginate(items, filter.Offset, filter.Limit), nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, n := range r.rows {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

package dto

import (
	"time"

	"sitestock/internal/domain/notification"
)

// NotificationFeedQuery filters the notification feed.
type NotificationFeedQuery struct {
	UnreadOnly bool `form:"unreadOnly"`
	Limit      int  `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset     int  `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts query parameters to the domain filter.
func (q NotificationFeedQuery) ToFilter() notification.FeedFilter {
	return notification.FeedFilter{
		UnreadOnly: q.UnreadOnly,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
}

// NotificationResponse is one feed entry.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromNotification maps a notification to its response shape.
func FromNotification(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// UnreadCountResponse answers the unread badge query.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// Package notification provides user-facing event delivery.
package notification

import (
	"context"
	"time"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
)

// Type classifies a notification for the UI.
type Type string

const (
	TypeInfo    Type = "INFO"
	TypeSuccess Type = "SUCCESS"
	TypeError   Type = "ERROR"
	TypeWarning Type = "WARNING"
)

// Notification is a message owned by its recipient. Only the read flag is
// ever mutated after creation.
type Notification struct {
	ID        id.ID     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Type      Type      `db:"type" json:"type"`
	Message   string    `db:"message" json:"message"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// New creates an unread notification.
func New(userID string, typ Type, message string) *Notification {
	return &Notification{
		ID:        id.New(),
		UserID:    userID,
		Type:      typ,
		Message:   message,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate implements entity.Validatable.
func (n *Notification) Validate(ctx context.Context) error {
	if n.UserID == "" {
		return apperror.NewValidation("user is required").
			WithDetail("field", "userId")
	}
	switch n.Type {
	case TypeInfo, TypeSuccess, TypeError, TypeWarning:
	default:
		return apperror.NewValidation("unknown notification type").
			WithDetail("field", "type").
			WithDetail("value", string(n.Type))
	}
	if n.Message == "" {
		return apperror.NewValidation("message is required").
			WithDetail("field", "message")
	}
	return nil
}

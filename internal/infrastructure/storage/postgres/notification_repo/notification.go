// Package notification_repo provides the PostgreSQL notification repository.
package notification_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/domain/notification"
	"sitestock/internal/infrastructure/storage/postgres"
)

const notificationsTable = "notifications"

var notificationColumns = []string{
	"id", "user_id", "type", "message", "read", "created_at",
}

// NotificationRepo implements notification.Repository.
type NotificationRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewNotificationRepo creates a new notification repository.
func NewNotificationRepo(txManager *postgres.TxManager) *NotificationRepo {
	return &NotificationRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create appends a notification.
func (r *NotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	q := r.builder.Insert(notificationsTable).
		Columns(notificationColumns...).
		Values(n.ID, n.UserID, n.Type, n.Message, n.Read, n.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// GetByID retrieves a notification.
func (r *NotificationRepo) GetByID(ctx context.Context, nID id.ID) (*notification.Notification, error) {
	q := r.builder.Select(notificationColumns...).
		From(notificationsTable).
		Where(squirrel.Eq{"id": nID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var n notification.Notification
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &n, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("notification", nID)
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}

// MarkRead flips the read flag. Marking an already-read row affects zero
// rows, which is fine; only an unknown id is an error.
func (r *NotificationRepo) MarkRead(ctx context.Context, nID id.ID) error {
	q := r.builder.Update(notificationsTable).
		Set("read", true).
		Where(squirrel.Eq{"id": nID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("notification", nID)
	}
	return nil
}

// ListByUser returns the user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, filter notification.FeedFilter) ([]*notification.Notification, error) {
	q := r.builder.Select(notificationColumns...).
		From(notificationsTable).
		Where(squirrel.Eq{"user_id": userID})

	if filter.UnreadOnly {
		q = q.Where(squirrel.Eq{"read": false})
	}

	q = q.OrderBy("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*notification.Notification
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}
	return items, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	sql := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = false`

	var count int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// Ensure interface compliance.
var _ notification.Repository = (*NotificationRepo)(nil)

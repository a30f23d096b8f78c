package handlers

import (
	"github.com/gin-gonic/gin"

	"sitestock/internal/core/apperror"
	"sitestock/internal/domain/notification"
	"sitestock/internal/infrastructure/http/v1/dto"
)

// NotificationHandler serves the per-user notification feed.
type NotificationHandler struct {
	*BaseHandler
	dispatcher *notification.Dispatcher
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(base *BaseHandler, dispatcher *notification.Dispatcher) *NotificationHandler {
	return &NotificationHandler{BaseHandler: base, dispatcher: dispatcher}
}

// RegisterRoutes registers notification routes.
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Feed)
	rg.GET("/unread-count", h.UnreadCount)
	rg.POST("/:id/read", h.MarkRead)
}

// Feed lists the caller's notifications, newest first.
// GET /notifications
func (h *NotificationHandler) Feed(c *gin.Context) {
	userID := h.GetUserID(c)
	if userID == "" {
		h.Error(c, apperror.NewUnauthorized("identity is required"))
		return
	}

	var query dto.NotificationFeedQuery
	if !h.BindQuery(c, &query) {
		return
	}

	feed, err := h.dispatcher.Feed(c.Request.Context(), userID, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.NotificationResponse, 0, len(feed))
	for _, n := range feed {
		items = append(items, dto.FromNotification(n))
	}
	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
}

// UnreadCount returns the caller's unread badge figure.
// GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := h.GetUserID(c)
	if userID == "" {
		h.Error(c, apperror.NewUnauthorized("identity is required"))
		return
	}

	count, err := h.dispatcher.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.UnreadCountResponse{Count: count})
}

// MarkRead marks one notification as read. Marking twice is a no-op.
// POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.dispatcher.MarkRead(c.Request.Context(), notificationID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

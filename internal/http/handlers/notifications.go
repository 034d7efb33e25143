package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gallerie/storefront/internal/domain/notification"
	"github.com/gallerie/storefront/internal/http/middlewares"
)

type NotificationStore interface {
	Create(ctx context.Context, n notification.Notification) error
	List(ctx context.Context, userID string, f notification.ListFilter) ([]notification.Notification, int, error)
	MarkRead(ctx context.Context, userID, id string) (notification.Notification, error)
	MarkManyRead(ctx context.Context, userID string, ids []string) ([]notification.Notification, error)
	MarkAllRead(ctx context.Context, userID string) ([]notification.Notification, error)
}

type NotificationsHandler struct {
	store NotificationStore
}

func NewNotificationsHandler(store NotificationStore) *NotificationsHandler {
	return &NotificationsHandler{store: store}
}

func (h *NotificationsHandler) List(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondInternal(ctx, "Missing identity context")
		return
	}

	f := notification.ListFilter{
		Query:  ctx.Query("q"),
		Status: notification.ReadStatus(ctx.DefaultQuery("status", "all")),
		Limit:  intQuery(ctx, "limit", notification.DefaultLimit),
		Offset: intQuery(ctx, "offset", 0),
	}

	items, total, err := h.store.List(ctx.Request.Context(), u.ID, f)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondOK(ctx, gin.H{
		"items": items,
		"total": total,
	})
}

func (h *NotificationsHandler) MarkRead(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondInternal(ctx, "Missing identity context")
		return
	}

	n, err := h.store.MarkRead(ctx.Request.Context(), u.ID, ctx.Param("id"))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondOK(ctx, gin.H{"notification": n})
}

type MarkManyReadBody struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

func (h *NotificationsHandler) MarkManyRead(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondInternal(ctx, "Missing identity context")
		return
	}

	var body MarkManyReadBody

	if !BindJSON(ctx, &body) {
		return
	}

	updated, err := h.store.MarkManyRead(ctx.Request.Context(), u.ID, body.IDs)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondOK(ctx, gin.H{
		"updated": updated,
		"count":   len(updated),
	})
}

func (h *NotificationsHandler) MarkAllRead(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondInternal(ctx, "Missing identity context")
		return
	}

	updated, err := h.store.MarkAllRead(ctx.Request.Context(), u.ID)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondOK(ctx, gin.H{
		"updated": updated,
		"count":   len(updated),
	})
}

type CreateNotificationBody struct {
	UserID string `json:"userId" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body"`
	Link   string `json:"link"`
}

// Create is the admin-only direct notification endpoint.
func (h *NotificationsHandler) Create(ctx *gin.Context) {
	var body CreateNotificationBody

	if !BindJSON(ctx, &body) {
		return
	}

	n := notification.Notification{
		ID:        uuid.NewString(),
		UserID:    body.UserID,
		Title:     body.Title,
		Body:      body.Body,
		Link:      body.Link,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.store.Create(ctx.Request.Context(), n); err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondCreated(ctx, gin.H{"notification": n})
}

func intQuery(ctx *gin.Context, key string, fallback int) int {
	v := ctx.Query(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}

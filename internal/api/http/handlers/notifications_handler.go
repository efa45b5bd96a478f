package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-service/internal/api/dto"
	"github.com/spec-kit/feedback-service/internal/notify"
	apperrors "github.com/spec-kit/feedback-service/pkg/util"
)

// NotificationsHandler serves the per-user notification endpoints.
type NotificationsHandler struct {
	store notify.Store
}

// NewNotificationsHandler constructs the handler.
func NewNotificationsHandler(store notify.Store) *NotificationsHandler {
	return &NotificationsHandler{store: store}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	opts := notify.ListOptions{
		Limit:      parseInt(c.Query("limit"), 20),
		Offset:     parseOffset(c.Query("offset")),
		UnreadOnly: c.QueryBool("unread_only"),
	}
	notifications, err := h.store.List(c.Context(), actor.UserID, opts)
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, dto.NewNotificationResponse(&notifications[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseOffset(val string) int {
	parsed := parseInt(val, 0)
	if parsed < 0 {
		return 0
	}
	return parsed
}

// Stats GET /notifications/stats.
func (h *NotificationsHandler) Stats(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	stats, err := h.store.Stats(c.Context(), actor.UserID)
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	return c.JSON(fiber.Map{"data": stats})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	updated, err := h.store.MarkRead(c.Context(), actor.UserID, c.Params("id"))
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": updated}})
}

// MarkAllRead POST /notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	count, err := h.store.MarkAllRead(c.Context(), actor.UserID)
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	return c.JSON(fiber.Map{"data": dto.MarkReadResponse{Updated: count}})
}

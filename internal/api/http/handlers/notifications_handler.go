package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/issue-reporting-service/internal/api/dto"
	"github.com/spec-kit/issue-reporting-service/internal/service"
)

// NotificationsHandler exposes the per-user inbox.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notificationService}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	items, err := h.notifications.ListForUser(c.Context(), actor.ID)
	if err != nil {
		return err
	}
	resp := make([]dto.NotificationResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, dto.NotificationResponse{
			ID:        item.ID,
			IssueID:   item.IssueID,
			Kind:      item.Kind,
			Message:   item.Message,
			Read:      item.Read,
			CreatedAt: item.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	if _, err := actorFromContext(c); err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead POST /notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkAllRead(c.Context(), actor.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

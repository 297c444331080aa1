package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/issue-reporting-service/internal/domain"
	"github.com/spec-kit/issue-reporting-service/internal/events"
	"github.com/spec-kit/issue-reporting-service/internal/repository"
	apperrors "github.com/spec-kit/issue-reporting-service/pkg/util"
)

// NotificationService maintains per-user inboxes. It records entries in
// response to dispatcher events; delivery stays in-process.
type NotificationService struct {
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(notifications repository.NotificationRepository, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to the events that produce inbox entries.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventIssueAssigned, n.handleIssueAssigned)
	n.dispatcher.Subscribe(events.EventIssueStatusChanged, n.handleStatusChanged)
}

// ListForUser returns the caller's inbox, newest first.
func (n *NotificationService) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	items, err := n.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// MarkRead flags a single notification as read.
func (n *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := n.notifications.MarkRead(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// MarkAllRead flags the whole inbox as read.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := n.notifications.MarkAllRead(ctx, userID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (n *NotificationService) handleIssueAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IssueAssignedPayload)
	if !ok {
		return nil
	}
	entry := &domain.Notification{
		UserID:  payload.AssignedTo,
		IssueID: event.IssueID,
		Kind:    domain.NotificationIssueAssigned,
		Message: "An issue has been assigned to you",
	}
	if err := n.notifications.Create(ctx, entry); err != nil {
		n.logger.Warn("record assignment notification", zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IssueStatusChangedPayload)
	if !ok {
		return nil
	}
	entry := &domain.Notification{
		UserID:  payload.StudentID,
		IssueID: event.IssueID,
		Kind:    domain.NotificationStatusChanged,
		Message: fmt.Sprintf("Your issue is now %s", payload.NewStatus),
	}
	if err := n.notifications.Create(ctx, entry); err != nil {
		n.logger.Warn("record status notification", zap.Error(err))
	}
	return nil
}

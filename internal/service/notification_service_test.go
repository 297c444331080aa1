package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/issue-reporting-service/internal/domain"
	"github.com/spec-kit/issue-reporting-service/internal/events"
	"github.com/spec-kit/issue-reporting-service/internal/repository"
	apperrors "github.com/spec-kit/issue-reporting-service/pkg/util"
)

func newNotificationFixture() (*NotificationService, events.Dispatcher) {
	store := repository.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(store.Notifications(), dispatcher, zap.NewNop())
	svc.RegisterHandlers()
	return svc, dispatcher
}

func TestAssignmentEventCreatesInboxEntry(t *testing.T) {
	svc, dispatcher := newNotificationFixture()
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventIssueAssigned,
		IssueID: "issue-1",
		Payload: events.IssueAssignedPayload{AssignedTo: "staff-1"},
	}))

	items, err := svc.ListForUser(ctx, "staff-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.NotificationIssueAssigned, items[0].Kind)
	assert.Equal(t, "issue-1", items[0].IssueID)
	assert.False(t, items[0].Read)
}

func TestStatusChangeEventNotifiesReporter(t *testing.T) {
	svc, dispatcher := newNotificationFixture()
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventIssueStatusChanged,
		IssueID: "issue-1",
		Payload: events.IssueStatusChangedPayload{
			OldStatus: domain.IssueStatusInProgress,
			NewStatus: domain.IssueStatusResolved,
			StudentID: "student-1",
		},
	}))

	items, err := svc.ListForUser(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.NotificationStatusChanged, items[0].Kind)
	assert.Contains(t, items[0].Message, "resolved")
}

func TestMarkReadFlows(t *testing.T) {
	svc, dispatcher := newNotificationFixture()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, dispatcher.Publish(ctx, events.Event{
			Type:    events.EventIssueAssigned,
			IssueID: "issue-1",
			Payload: events.IssueAssignedPayload{AssignedTo: "staff-1"},
		}))
	}

	items, err := svc.ListForUser(ctx, "staff-1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NoError(t, svc.MarkRead(ctx, items[0].ID))
	items, err = svc.ListForUser(ctx, "staff-1")
	require.NoError(t, err)
	read := 0
	for _, item := range items {
		if item.Read {
			read++
		}
	}
	assert.Equal(t, 1, read)

	require.NoError(t, svc.MarkAllRead(ctx, "staff-1"))
	items, err = svc.ListForUser(ctx, "staff-1")
	require.NoError(t, err)
	for _, item := range items {
		assert.True(t, item.Read)
	}
}

func TestMarkReadUnknownNotification(t *testing.T) {
	svc, _ := newNotificationFixture()

	err := svc.MarkRead(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

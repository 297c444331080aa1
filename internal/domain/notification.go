package domain

import "time"

// NotificationKind labels inbox entries.
type NotificationKind string

const (
	NotificationIssueAssigned NotificationKind = "issue_assigned"
	NotificationStatusChanged NotificationKind = "status_changed"
)

// Notification is a per-user inbox entry, independent of the lifecycle
// engine itself.
type Notification struct {
	ID        string
	UserID    string
	IssueID   string
	Kind      NotificationKind
	Message   string
	Read      bool
	CreatedAt time.Time
}

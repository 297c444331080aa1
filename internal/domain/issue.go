package domain

import "time"

// IssueStatus enumerates lifecycle states for reported issues.
type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "pending"
	IssueStatusAssigned   IssueStatus = "assigned"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusRejected   IssueStatus = "rejected"
)

// ValidStatus reports whether the value is a member of the status enumeration.
func ValidStatus(s IssueStatus) bool {
	switch s {
	case IssueStatusPending, IssueStatusAssigned, IssueStatusInProgress,
		IssueStatusResolved, IssueStatusRejected:
		return true
	}
	return false
}

// TerminalStatus reports whether no staff transition leads out of the state.
func TerminalStatus(s IssueStatus) bool {
	return s == IssueStatusResolved || s == IssueStatusRejected
}

// IssuePriority enumerates urgency levels.
type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "low"
	IssuePriorityMedium IssuePriority = "medium"
	IssuePriorityHigh   IssuePriority = "high"
	IssuePriorityUrgent IssuePriority = "urgent"
)

// ValidPriority reports whether the value is one of the four levels.
func ValidPriority(p IssuePriority) bool {
	switch p {
	case IssuePriorityLow, IssuePriorityMedium, IssuePriorityHigh, IssuePriorityUrgent:
		return true
	}
	return false
}

// Issue is the aggregate tracked through the status lifecycle.
// StudentID is the reporting user's ID and never changes after creation.
// ResolvedAt is set the first time the issue reaches resolved and is
// never cleared afterwards.
type Issue struct {
	ID          string
	Title       string
	Description string
	Category    string
	Department  string
	Priority    IssuePriority
	Status      IssueStatus
	StudentID   string
	AssignedTo  *string
	Attachments []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time
}

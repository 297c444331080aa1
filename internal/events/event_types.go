package events

import (
	"time"

	"github.com/spec-kit/issue-reporting-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated       EventType = "issue_created"
	EventIssueAssigned      EventType = "issue_assigned"
	EventIssueStatusChanged EventType = "issue_status_changed"
	EventCommentAdded       EventType = "comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id"`
	ActorID   string      `json:"actor_id"`
	ActorRole domain.Role `json:"actor_role"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	Department string               `json:"department"`
	Category   string               `json:"category"`
	Priority   domain.IssuePriority `json:"priority"`
	Title      string               `json:"title"`
}

// IssueAssignedPayload payload.
type IssueAssignedPayload struct {
	AssignedTo       string  `json:"assigned_to"`
	PreviousAssignee *string `json:"previous_assignee,omitempty"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status"`
	NewStatus domain.IssueStatus `json:"new_status"`
	StudentID string             `json:"student_id"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID string `json:"comment_id"`
	AuthorID  string `json:"author_id"`
	Preview   string `json:"preview"`
}

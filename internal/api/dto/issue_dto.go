package dto

import (
	"time"

	"github.com/spec-kit/issue-reporting-service/internal/domain"
)

// CreateIssueRequest payload.
type CreateIssueRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Department  string               `json:"department"`
	Priority    domain.IssuePriority `json:"priority"`
	Attachments []string             `json:"attachments"`
}

// AssignIssueRequest payload.
type AssignIssueRequest struct {
	AssignedTo string `json:"assigned_to"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.IssueStatus `json:"status"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// IssueResponse is the issue shape with reporter/assignee snapshots.
type IssueResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Department  string               `json:"department"`
	Priority    domain.IssuePriority `json:"priority"`
	Status      domain.IssueStatus   `json:"status"`
	StudentID   string               `json:"student_id"`
	AssignedTo  *string              `json:"assigned_to,omitempty"`
	Attachments []string             `json:"attachments,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	ResolvedAt  *time.Time           `json:"resolved_at,omitempty"`
	Reporter    *UserResponse        `json:"reporter,omitempty"`
	Assignee    *UserResponse        `json:"assignee,omitempty"`
}

// IssueChangeResponse carries the record before and after a mutation so
// clients can roll back optimistic updates precisely.
type IssueChangeResponse struct {
	Previous IssueResponse `json:"previous"`
	Updated  IssueResponse `json:"updated"`
}

// CommentResponse is one entry of the issue's comment log.
type CommentResponse struct {
	ID        string    `json:"id"`
	IssueID   string    `json:"issue_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// IssueDetailResponse bundles an issue with its comments.
type IssueDetailResponse struct {
	Issue    IssueResponse     `json:"issue"`
	Comments []CommentResponse `json:"comments"`
}

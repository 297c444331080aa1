package dto

import (
	"time"

	"github.com/spec-kit/issue-reporting-service/internal/domain"
)

// NotificationResponse is one inbox entry.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	IssueID   string                  `json:"issue_id"`
	Kind      domain.NotificationKind `json:"kind"`
	Message   string                  `json:"message"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}

package domain

import "time"

// Comment is a free-text note on an issue. Comments are immutable once
// created and ordered by creation time; appending one does not touch the
// issue's UpdatedAt.
type Comment struct {
	ID        string
	IssueID   string
	UserID    string
	Content   string
	CreatedAt time.Time
}

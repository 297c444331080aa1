package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/issue-reporting-service/internal/domain"
	"github.com/spec-kit/issue-reporting-service/internal/events"
	"github.com/spec-kit/issue-reporting-service/internal/repository"
	apperrors "github.com/spec-kit/issue-reporting-service/pkg/util"
)

// Actor identifies who invokes a lifecycle operation. It is built from
// the authenticated principal and trusted as-is.
type Actor struct {
	ID         string
	Role       domain.Role
	Department *string
}

// IssueView is an issue augmented with snapshots of the reporting user
// and, when present, the assignee.
type IssueView struct {
	Issue    domain.Issue
	Reporter *domain.User
	Assignee *domain.User
}

// IssueChange carries the record before and after a mutation so callers
// can roll back an optimistic update without re-fetching.
type IssueChange struct {
	Previous domain.Issue
	Updated  domain.Issue
}

// IssueService owns the issue collection and the legal transitions
// between statuses.
type IssueService struct {
	issues     repository.IssueRepository
	users      repository.UserRepository
	comments   repository.CommentRepository
	dispatcher events.Dispatcher
}

// IssueDependencies bundles repositories for the issue service.
type IssueDependencies struct {
	IssueRepo   repository.IssueRepository
	UserRepo    repository.UserRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	return &IssueService{
		issues:     deps.IssueRepo,
		users:      deps.UserRepo,
		comments:   deps.CommentRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateIssue validates the report and inserts a new issue with status
// pending, bound to the reporting student.
func (s *IssueService) CreateIssue(ctx context.Context, actor Actor, report domain.IssueReport) (*domain.Issue, error) {
	if actor.Role != domain.RoleStudent {
		return nil, apperrors.NewForbidden("only students may report issues")
	}
	if problems := report.Validate(); problems != nil {
		return nil, apperrors.NewValidationError("invalid issue report", problems)
	}

	now := time.Now()
	issue := &domain.Issue{
		Title:       strings.TrimSpace(report.Title),
		Description: strings.TrimSpace(report.Description),
		Category:    report.Category,
		Department:  report.Department,
		Priority:    report.Priority,
		Status:      domain.IssueStatusPending,
		StudentID:   actor.ID,
		Attachments: report.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type:    events.EventIssueCreated,
		IssueID: issue.ID,
		Payload: events.IssueCreatedPayload{
			Department: issue.Department,
			Category:   issue.Category,
			Priority:   issue.Priority,
			Title:      issue.Title,
		},
	})
	return issue, nil
}

// ListIssues returns issues matching the filter in insertion order, each
// augmented with reporter and assignee snapshots. Department staff are
// scoped to their own department unless the actor is an admin.
func (s *IssueService) ListIssues(ctx context.Context, actor Actor, filter repository.IssueFilter) ([]IssueView, error) {
	s.applyStaffScope(&filter, actor)
	issues, err := s.issues.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	snapshots := map[string]*domain.User{}
	views := make([]IssueView, 0, len(issues))
	for i := range issues {
		view := IssueView{Issue: issues[i]}
		view.Reporter = s.userSnapshot(ctx, snapshots, issues[i].StudentID)
		if issues[i].AssignedTo != nil {
			view.Assignee = s.userSnapshot(ctx, snapshots, *issues[i].AssignedTo)
		}
		views = append(views, view)
	}
	return views, nil
}

// GetIssue fetches one issue with snapshots and its comment log,
// enforcing the caller's visibility rules.
func (s *IssueService) GetIssue(ctx context.Context, actor Actor, issueID string) (*IssueView, []domain.Comment, error) {
	issue, err := s.getIssue(ctx, issueID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.actorCanAccess(actor, issue); err != nil {
		return nil, nil, err
	}

	snapshots := map[string]*domain.User{}
	view := &IssueView{Issue: *issue}
	view.Reporter = s.userSnapshot(ctx, snapshots, issue.StudentID)
	if issue.AssignedTo != nil {
		view.Assignee = s.userSnapshot(ctx, snapshots, *issue.AssignedTo)
	}

	comments, err := s.comments.ListByIssue(ctx, issue.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return view, comments, nil
}

// AssignIssue binds a handler to a pending or already assigned issue and
// forces its status to assigned. Re-assignment overwrites the previous
// assignee without error.
func (s *IssueService) AssignIssue(ctx context.Context, actor Actor, issueID, assigneeID string) (*IssueChange, error) {
	if !domain.RoleMayAssign(actor.Role) {
		return nil, apperrors.NewForbidden("only admins may assign issues")
	}
	if _, err := s.users.GetByID(ctx, assigneeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("assignee", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}

	issue, err := s.getIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAssign(issue.Status) {
		return nil, apperrors.NewConflict("issue not assignable in current status",
			map[string]any{"status": issue.Status})
	}

	previous := *issue
	issue.AssignedTo = &assigneeID
	issue.Status = domain.IssueStatusAssigned
	issue.UpdatedAt = time.Now()
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type:    events.EventIssueAssigned,
		IssueID: issue.ID,
		Payload: events.IssueAssignedPayload{
			AssignedTo:       assigneeID,
			PreviousAssignee: previous.AssignedTo,
		},
	})
	return &IssueChange{Previous: previous, Updated: *issue}, nil
}

// UpdateStatus moves an issue through the transition table. Staff follow
// the stepwise path; admins may additionally resolve or reject directly
// from any state. ResolvedAt is set the first time the issue reaches
// resolved and never overwritten.
func (s *IssueService) UpdateStatus(ctx context.Context, actor Actor, issueID string, newStatus domain.IssueStatus) (*IssueChange, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}
	if !domain.RoleMayUpdateStatus(actor.Role) {
		return nil, apperrors.NewForbidden("role may not update issue status")
	}

	issue, err := s.getIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if err := s.actorCanAccess(actor, issue); err != nil {
		return nil, err
	}
	if !domain.CanTransition(actor.Role, issue.Status, newStatus) {
		return nil, apperrors.NewConflict("illegal status transition",
			map[string]any{"from": issue.Status, "to": newStatus})
	}

	previous := *issue
	now := time.Now()
	issue.Status = newStatus
	if newStatus == domain.IssueStatusResolved && issue.ResolvedAt == nil {
		issue.ResolvedAt = &now
	}
	issue.UpdatedAt = now
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type:    events.EventIssueStatusChanged,
		IssueID: issue.ID,
		Payload: events.IssueStatusChangedPayload{
			OldStatus: previous.Status,
			NewStatus: newStatus,
			StudentID: issue.StudentID,
		},
	})
	return &IssueChange{Previous: previous, Updated: *issue}, nil
}

// AddComment appends to the issue's comment log, subject to the same
// visibility rules as GetIssue. The issue record itself is untouched; in
// particular UpdatedAt does not move.
func (s *IssueService) AddComment(ctx context.Context, actor Actor, issueID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("comment content required", nil)
	}

	issue, err := s.getIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if err := s.actorCanAccess(actor, issue); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		IssueID: issue.ID,
		UserID:  actor.ID,
		Content: content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type:    events.EventCommentAdded,
		IssueID: issue.ID,
		Payload: events.CommentAddedPayload{
			CommentID: comment.ID,
			AuthorID:  actor.ID,
			Preview:   contentPreview(comment.Content, 120),
		},
	})
	return comment, nil
}

func (s *IssueService) getIssue(ctx context.Context, issueID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"issue_id": issueID})
		}
		return nil, apperrors.MapError(err)
	}
	return issue, nil
}

func (s *IssueService) applyStaffScope(filter *repository.IssueFilter, actor Actor) {
	if actor.Role != domain.RoleDeptStaff {
		return
	}
	if actor.Department != nil {
		filter.Department = actor.Department
	}
}

func (s *IssueService) actorCanAccess(actor Actor, issue *domain.Issue) error {
	switch actor.Role {
	case domain.RoleDSWAdmin:
		return nil
	case domain.RoleDeptStaff:
		if actor.Department != nil && *actor.Department != issue.Department {
			return apperrors.NewForbidden("issue outside staff department")
		}
		return nil
	case domain.RoleStudent:
		if issue.StudentID != actor.ID {
			return apperrors.NewForbidden("students may only access their own issues")
		}
		return nil
	default:
		return apperrors.NewForbidden("unknown role")
	}
}

func (s *IssueService) userSnapshot(ctx context.Context, cache map[string]*domain.User, userID string) *domain.User {
	if cached, ok := cache[userID]; ok {
		return cached
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		cache[userID] = nil
		return nil
	}
	cache[userID] = user
	return user
}

func (s *IssueService) publishEvent(ctx context.Context, actor Actor, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.ActorID = actor.ID
	event.ActorRole = actor.Role
	_ = s.dispatcher.Publish(ctx, event)
}

func contentPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/issue-reporting-service/internal/api/dto"
	"github.com/spec-kit/issue-reporting-service/internal/auth"
	"github.com/spec-kit/issue-reporting-service/internal/domain"
	"github.com/spec-kit/issue-reporting-service/internal/repository"
	"github.com/spec-kit/issue-reporting-service/internal/service"
	apperrors "github.com/spec-kit/issue-reporting-service/pkg/util"
)

// IssuesHandler manages student-facing issue endpoints.
type IssuesHandler struct {
	issues *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService) *IssuesHandler {
	return &IssuesHandler{issues: issueService}
}

// CreateIssue POST /issues.
func (h *IssuesHandler) CreateIssue(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.issues.CreateIssue(c.Context(), actor, domain.IssueReport{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Department:  req.Department,
		Priority:    req.Priority,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": issueResponse(issue, nil, nil)})
}

// ListIssues GET /issues returns the caller's own reports.
func (h *IssuesHandler) ListIssues(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	filter := repository.IssueFilter{StudentID: &actor.ID}
	if status := c.Query("status"); status != "" {
		s := domain.IssueStatus(status)
		filter.Status = &s
	}
	views, err := h.issues.ListIssues(c.Context(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueViewResponses(views)})
}

// GetIssue GET /issues/:id.
func (h *IssuesHandler) GetIssue(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	view, comments, err := h.issues.GetIssue(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueDetailResponse(view, comments)})
}

// AddComment POST /issues/:id/comments.
func (h *IssuesHandler) AddComment(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.issues.AddComment(c.Context(), actor, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

func actorFromContext(c *fiber.Ctx) (service.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return service.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.Actor{
		ID:         principal.User.ID,
		Role:       principal.User.Role,
		Department: principal.User.Department,
	}, nil
}

func issueResponse(issue *domain.Issue, reporter, assignee *domain.User) dto.IssueResponse {
	resp := dto.IssueResponse{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Category:    issue.Category,
		Department:  issue.Department,
		Priority:    issue.Priority,
		Status:      issue.Status,
		StudentID:   issue.StudentID,
		AssignedTo:  issue.AssignedTo,
		Attachments: issue.Attachments,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
		ResolvedAt:  issue.ResolvedAt,
	}
	if reporter != nil {
		r := userResponse(reporter)
		resp.Reporter = &r
	}
	if assignee != nil {
		a := userResponse(assignee)
		resp.Assignee = &a
	}
	return resp
}

func issueViewResponses(views []service.IssueView) []dto.IssueResponse {
	items := make([]dto.IssueResponse, 0, len(views))
	for i := range views {
		items = append(items, issueResponse(&views[i].Issue, views[i].Reporter, views[i].Assignee))
	}
	return items
}

func issueDetailResponse(view *service.IssueView, comments []domain.Comment) dto.IssueDetailResponse {
	resp := dto.IssueDetailResponse{
		Issue:    issueResponse(&view.Issue, view.Reporter, view.Assignee),
		Comments: make([]dto.CommentResponse, 0, len(comments)),
	}
	for i := range comments {
		resp.Comments = append(resp.Comments, commentResponse(&comments[i]))
	}
	return resp
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		IssueID:   comment.IssueID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

func issueChangeResponse(change *service.IssueChange) dto.IssueChangeResponse {
	return dto.IssueChangeResponse{
		Previous: issueResponse(&change.Previous, nil, nil),
		Updated:  issueResponse(&change.Updated, nil, nil),
	}
}

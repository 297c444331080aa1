package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/issue-reporting-service/internal/api/dto"
	"github.com/spec-kit/issue-reporting-service/internal/domain"
	"github.com/spec-kit/issue-reporting-service/internal/repository"
	"github.com/spec-kit/issue-reporting-service/internal/service"
	apperrors "github.com/spec-kit/issue-reporting-service/pkg/util"
)

// StaffIssuesHandler exposes the triage endpoints used by department
// staff and administrators.
type StaffIssuesHandler struct {
	issues *service.IssueService
}

// NewStaffIssuesHandler constructs handler.
func NewStaffIssuesHandler(issueService *service.IssueService) *StaffIssuesHandler {
	return &StaffIssuesHandler{issues: issueService}
}

// ListIssues GET /staff/issues with optional filters.
func (h *StaffIssuesHandler) ListIssues(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	filter := parseIssueFilter(c)
	views, err := h.issues.ListIssues(c.Context(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueViewResponses(views)})
}

// GetIssue GET /staff/issues/:id.
func (h *StaffIssuesHandler) GetIssue(c *fiber.Ctx) error {
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

// AssignIssue POST /staff/issues/:id/assign.
func (h *StaffIssuesHandler) AssignIssue(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.AssignIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssignedTo == "" {
		return apperrors.NewValidationError("assigned_to required", nil)
	}
	change, err := h.issues.AssignIssue(c.Context(), actor, c.Params("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueChangeResponse(change)})
}

// AddComment POST /staff/issues/:id/comments.
func (h *StaffIssuesHandler) AddComment(c *fiber.Ctx) error {
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

// UpdateStatus POST /staff/issues/:id/status.
func (h *StaffIssuesHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	change, err := h.issues.UpdateStatus(c.Context(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueChangeResponse(change)})
}

func parseIssueFilter(c *fiber.Ctx) repository.IssueFilter {
	filter := repository.IssueFilter{}
	if studentID := c.Query("student_id"); studentID != "" {
		filter.StudentID = &studentID
	}
	if department := c.Query("department"); department != "" {
		filter.Department = &department
	}
	if status := c.Query("status"); status != "" {
		s := domain.IssueStatus(status)
		filter.Status = &s
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		filter.AssignedTo = &assignedTo
	}
	return filter
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/issue-reporting-service/internal/domain"
	"github.com/spec-kit/issue-reporting-service/internal/events"
	"github.com/spec-kit/issue-reporting-service/internal/repository"
	apperrors "github.com/spec-kit/issue-reporting-service/pkg/util"
)

type issueServiceFixture struct {
	store   *repository.MemoryStore
	service *IssueService

	student Actor
	staff   Actor
	admin   Actor

	staffUser domain.User
}

func newIssueServiceFixture(t *testing.T) *issueServiceFixture {
	t.Helper()
	store := repository.NewMemoryStore()
	ctx := context.Background()

	estates := "Civil Engineering"
	student := domain.User{Email: "student@uiu.ac.bd", FullName: "Student One", Role: domain.RoleStudent}
	staff := domain.User{Email: "staff@uiu.ac.bd", FullName: "Staff One", Role: domain.RoleDeptStaff, Department: &estates}
	admin := domain.User{Email: "admin@uiu.ac.bd", FullName: "Admin One", Role: domain.RoleDSWAdmin}
	for _, u := range []*domain.User{&student, &staff, &admin} {
		require.NoError(t, store.Users().Create(ctx, u))
	}

	svc := NewIssueService(IssueDependencies{
		IssueRepo:   store.Issues(),
		UserRepo:    store.Users(),
		CommentRepo: store.Comments(),
		Dispatcher:  events.NewInMemoryDispatcher(),
	})

	return &issueServiceFixture{
		store:     store,
		service:   svc,
		student:   Actor{ID: student.ID, Role: student.Role},
		staff:     Actor{ID: staff.ID, Role: staff.Role, Department: staff.Department},
		admin:     Actor{ID: admin.ID, Role: admin.Role},
		staffUser: staff,
	}
}

func (f *issueServiceFixture) report() domain.IssueReport {
	return domain.IssueReport{
		Title:       "Broken AC in Room 402",
		Description: "The air conditioner in room 402 has not worked for a week.",
		Category:    "Facilities & Infrastructure",
		Department:  "Civil Engineering",
		Priority:    domain.IssuePriorityHigh,
	}
}

func (f *issueServiceFixture) createIssue(t *testing.T) *domain.Issue {
	t.Helper()
	issue, err := f.service.CreateIssue(context.Background(), f.student, f.report())
	require.NoError(t, err)
	return issue
}

func TestCreateIssueStartsPending(t *testing.T) {
	f := newIssueServiceFixture(t)

	issue := f.createIssue(t)

	assert.NotEmpty(t, issue.ID)
	assert.Equal(t, domain.IssueStatusPending, issue.Status)
	assert.Equal(t, f.student.ID, issue.StudentID)
	assert.Nil(t, issue.AssignedTo)
	assert.Nil(t, issue.ResolvedAt)
	assert.Equal(t, issue.CreatedAt, issue.UpdatedAt)
}

func TestCreateIssueDefaultsPriority(t *testing.T) {
	f := newIssueServiceFixture(t)
	report := f.report()
	report.Priority = ""

	issue, err := f.service.CreateIssue(context.Background(), f.student, report)
	require.NoError(t, err)
	assert.Equal(t, domain.IssuePriorityMedium, issue.Priority)
}

func TestCreateIssueRejectsInvalidReport(t *testing.T) {
	f := newIssueServiceFixture(t)
	report := f.report()
	report.Title = "AC"

	_, err := f.service.CreateIssue(context.Background(), f.student, report)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	issues, listErr := f.store.Issues().List(context.Background(), repository.IssueFilter{})
	require.NoError(t, listErr)
	assert.Empty(t, issues)
}

func TestCreateIssueForbiddenForStaffAndAdmin(t *testing.T) {
	f := newIssueServiceFixture(t)

	for _, actor := range []Actor{f.staff, f.admin} {
		_, err := f.service.CreateIssue(context.Background(), actor, f.report())
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	}
}

func TestAssignIssueSetsAssigneeAndStatus(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	change, err := f.service.AssignIssue(context.Background(), f.admin, issue.ID, f.staffUser.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.IssueStatusPending, change.Previous.Status)
	assert.Equal(t, domain.IssueStatusAssigned, change.Updated.Status)
	require.NotNil(t, change.Updated.AssignedTo)
	assert.Equal(t, f.staffUser.ID, *change.Updated.AssignedTo)
}

func TestAssignIssueReassignmentOverwrites(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	other := domain.User{Email: "staff2@uiu.ac.bd", FullName: "Staff Two", Role: domain.RoleDeptStaff}
	require.NoError(t, f.store.Users().Create(context.Background(), &other))

	_, err := f.service.AssignIssue(context.Background(), f.admin, issue.ID, f.staffUser.ID)
	require.NoError(t, err)

	change, err := f.service.AssignIssue(context.Background(), f.admin, issue.ID, other.ID)
	require.NoError(t, err)
	require.NotNil(t, change.Previous.AssignedTo)
	assert.Equal(t, f.staffUser.ID, *change.Previous.AssignedTo)
	require.NotNil(t, change.Updated.AssignedTo)
	assert.Equal(t, other.ID, *change.Updated.AssignedTo)
	assert.Equal(t, domain.IssueStatusAssigned, change.Updated.Status)
}

func TestAssignIssueUnknownAssigneeLeavesIssueUntouched(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	_, err := f.service.AssignIssue(context.Background(), f.admin, issue.ID, "no-such-user")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	stored, getErr := f.store.Issues().GetByID(context.Background(), issue.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.IssueStatusPending, stored.Status)
	assert.Nil(t, stored.AssignedTo)
}

func TestAssignIssueForbiddenForNonAdmins(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	for _, actor := range []Actor{f.student, f.staff} {
		_, err := f.service.AssignIssue(context.Background(), actor, issue.ID, f.staffUser.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	}
}

func TestAssignIssueConflictsOutsideAssignableStates(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	_, err := f.service.UpdateStatus(context.Background(), f.staff, issue.ID, domain.IssueStatusInProgress)
	require.NoError(t, err)

	_, err = f.service.AssignIssue(context.Background(), f.admin, issue.ID, f.staffUser.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestUpdateStatusResolvingSetsResolvedAtOnce(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	_, err := f.service.UpdateStatus(context.Background(), f.staff, issue.ID, domain.IssueStatusInProgress)
	require.NoError(t, err)

	change, err := f.service.UpdateStatus(context.Background(), f.staff, issue.ID, domain.IssueStatusResolved)
	require.NoError(t, err)
	require.NotNil(t, change.Updated.ResolvedAt)
	firstResolution := *change.Updated.ResolvedAt
	assert.False(t, firstResolution.Before(change.Updated.CreatedAt))

	// An admin override back into resolved must not move the timestamp.
	change, err = f.service.UpdateStatus(context.Background(), f.admin, issue.ID, domain.IssueStatusResolved)
	require.NoError(t, err)
	require.NotNil(t, change.Updated.ResolvedAt)
	assert.Equal(t, firstResolution, *change.Updated.ResolvedAt)
}

func TestUpdateStatusStaffCannotSkipSteps(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	_, err := f.service.UpdateStatus(context.Background(), f.staff, issue.ID, domain.IssueStatusResolved)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestUpdateStatusAdminOverrideFromPending(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	change, err := f.service.UpdateStatus(context.Background(), f.admin, issue.ID, domain.IssueStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.IssueStatusPending, change.Previous.Status)
	assert.Equal(t, domain.IssueStatusRejected, change.Updated.Status)
	assert.Nil(t, change.Updated.ResolvedAt)
}

func TestUpdateStatusForbiddenForStudents(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	_, err := f.service.UpdateStatus(context.Background(), f.student, issue.ID, domain.IssueStatusInProgress)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	_, err := f.service.UpdateStatus(context.Background(), f.admin, issue.ID, domain.IssueStatus("archived"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestUpdateStatusUnknownIssue(t *testing.T) {
	f := newIssueServiceFixture(t)

	_, err := f.service.UpdateStatus(context.Background(), f.admin, "no-such-issue", domain.IssueStatusResolved)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestListIssuesPreservesInsertionOrder(t *testing.T) {
	f := newIssueServiceFixture(t)

	titles := []string{"First broken thing", "Second broken thing", "Third broken thing"}
	for _, title := range titles {
		report := f.report()
		report.Title = title
		_, err := f.service.CreateIssue(context.Background(), f.student, report)
		require.NoError(t, err)
	}

	views, err := f.service.ListIssues(context.Background(), f.student,
		repository.IssueFilter{StudentID: &f.student.ID})
	require.NoError(t, err)
	require.Len(t, views, 3)
	for i, title := range titles {
		assert.Equal(t, title, views[i].Issue.Title)
	}
}

func TestListIssuesScopesDeptStaffToTheirDepartment(t *testing.T) {
	f := newIssueServiceFixture(t)

	inDept := f.report()
	_, err := f.service.CreateIssue(context.Background(), f.student, inDept)
	require.NoError(t, err)

	outOfDept := f.report()
	outOfDept.Department = "IT Department"
	_, err = f.service.CreateIssue(context.Background(), f.student, outOfDept)
	require.NoError(t, err)

	views, err := f.service.ListIssues(context.Background(), f.staff, repository.IssueFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Civil Engineering", views[0].Issue.Department)

	// Admins see everything.
	views, err = f.service.ListIssues(context.Background(), f.admin, repository.IssueFilter{})
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestListIssuesAttachesReporterAndAssigneeSnapshots(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	_, err := f.service.AssignIssue(context.Background(), f.admin, issue.ID, f.staffUser.ID)
	require.NoError(t, err)

	views, err := f.service.ListIssues(context.Background(), f.admin, repository.IssueFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Reporter)
	assert.Equal(t, f.student.ID, views[0].Reporter.ID)
	require.NotNil(t, views[0].Assignee)
	assert.Equal(t, f.staffUser.ID, views[0].Assignee.ID)
}

func TestGetIssueEnforcesStudentOwnership(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	other := domain.User{Email: "student2@uiu.ac.bd", FullName: "Student Two", Role: domain.RoleStudent}
	require.NoError(t, f.store.Users().Create(context.Background(), &other))

	_, _, err := f.service.GetIssue(context.Background(), Actor{ID: other.ID, Role: domain.RoleStudent}, issue.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	view, comments, err := f.service.GetIssue(context.Background(), f.student, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.ID, view.Issue.ID)
	assert.Empty(t, comments)
}

func TestAddCommentDoesNotTouchIssueUpdatedAt(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)
	before := issue.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	comment, err := f.service.AddComment(context.Background(), f.student, issue.ID, "Any update on this?")
	require.NoError(t, err)
	assert.Equal(t, issue.ID, comment.IssueID)
	assert.Equal(t, f.student.ID, comment.UserID)

	stored, err := f.store.Issues().GetByID(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Equal(t, before, stored.UpdatedAt)
}

func TestAddCommentEnforcesVisibilityRules(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)
	ctx := context.Background()

	other := domain.User{Email: "student2@uiu.ac.bd", FullName: "Student Two", Role: domain.RoleStudent}
	require.NoError(t, f.store.Users().Create(ctx, &other))

	// A student who cannot read the issue cannot comment on it either.
	_, err := f.service.AddComment(ctx, Actor{ID: other.ID, Role: domain.RoleStudent}, issue.ID, "let me in")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	comments, err := f.store.Comments().ListByIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	// Staff outside the issue's department are equally blocked.
	itDept := "IT Department"
	outsider := Actor{ID: f.staff.ID, Role: domain.RoleDeptStaff, Department: &itDept}
	_, err = f.service.AddComment(ctx, outsider, issue.ID, "wrong department")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	// Staff in the department and admins may comment.
	_, err = f.service.AddComment(ctx, f.staff, issue.ID, "on it")
	require.NoError(t, err)
	_, err = f.service.AddComment(ctx, f.admin, issue.ID, "noted")
	require.NoError(t, err)

	comments, err = f.store.Comments().ListByIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestAddCommentRejectsBlankContent(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	_, err := f.service.AddComment(context.Background(), f.student, issue.ID, "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestGetIssueReturnsCommentsInCreationOrder(t *testing.T) {
	f := newIssueServiceFixture(t)
	issue := f.createIssue(t)

	bodies := []string{"first note", "second note", "third note"}
	for _, body := range bodies {
		_, err := f.service.AddComment(context.Background(), f.student, issue.ID, body)
		require.NoError(t, err)
	}

	_, comments, err := f.service.GetIssue(context.Background(), f.student, issue.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	for i, body := range bodies {
		assert.Equal(t, body, comments[i].Content)
	}
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleMayUpdateStatus(t *testing.T) {
	assert.True(t, RoleMayUpdateStatus(RoleDeptStaff))
	assert.True(t, RoleMayUpdateStatus(RoleDSWAdmin))
	assert.False(t, RoleMayUpdateStatus(RoleStudent))
}

func TestRoleMayAssign(t *testing.T) {
	assert.True(t, RoleMayAssign(RoleDSWAdmin))
	assert.False(t, RoleMayAssign(RoleDeptStaff))
	assert.False(t, RoleMayAssign(RoleStudent))
}

func TestCanTransitionStaffFollowsStepwisePath(t *testing.T) {
	cases := []struct {
		name    string
		from    IssueStatus
		to      IssueStatus
		allowed bool
	}{
		{"pending to in_progress", IssueStatusPending, IssueStatusInProgress, true},
		{"assigned to in_progress", IssueStatusAssigned, IssueStatusInProgress, true},
		{"in_progress to resolved", IssueStatusInProgress, IssueStatusResolved, true},
		{"in_progress to rejected", IssueStatusInProgress, IssueStatusRejected, true},
		{"pending to resolved skips", IssueStatusPending, IssueStatusResolved, false},
		{"pending to rejected skips", IssueStatusPending, IssueStatusRejected, false},
		{"assigned to resolved skips", IssueStatusAssigned, IssueStatusResolved, false},
		{"resolved is terminal", IssueStatusResolved, IssueStatusInProgress, false},
		{"rejected is terminal", IssueStatusRejected, IssueStatusInProgress, false},
		{"no self transition", IssueStatusInProgress, IssueStatusInProgress, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransition(RoleDeptStaff, tc.from, tc.to))
		})
	}
}

func TestCanTransitionAdminOverridesIntoTerminalStates(t *testing.T) {
	for _, from := range []IssueStatus{
		IssueStatusPending, IssueStatusAssigned, IssueStatusInProgress,
		IssueStatusResolved, IssueStatusRejected,
	} {
		assert.True(t, CanTransition(RoleDSWAdmin, from, IssueStatusResolved), "from %s", from)
		assert.True(t, CanTransition(RoleDSWAdmin, from, IssueStatusRejected), "from %s", from)
	}

	// Non-terminal targets still follow the stepwise path.
	assert.True(t, CanTransition(RoleDSWAdmin, IssueStatusPending, IssueStatusInProgress))
	assert.False(t, CanTransition(RoleDSWAdmin, IssueStatusPending, IssueStatusAssigned))
	assert.False(t, CanTransition(RoleDSWAdmin, IssueStatusResolved, IssueStatusInProgress))
}

func TestCanTransitionRejectsStudentsAndUnknownStatuses(t *testing.T) {
	assert.False(t, CanTransition(RoleStudent, IssueStatusPending, IssueStatusInProgress))
	assert.False(t, CanTransition(RoleDSWAdmin, IssueStatusPending, IssueStatus("archived")))
}

func TestCanAssign(t *testing.T) {
	assert.True(t, CanAssign(IssueStatusPending))
	assert.True(t, CanAssign(IssueStatusAssigned))
	assert.False(t, CanAssign(IssueStatusInProgress))
	assert.False(t, CanAssign(IssueStatusResolved))
	assert.False(t, CanAssign(IssueStatusRejected))
}

func TestTerminalStatus(t *testing.T) {
	assert.True(t, TerminalStatus(IssueStatusResolved))
	assert.True(t, TerminalStatus(IssueStatusRejected))
	assert.False(t, TerminalStatus(IssueStatusPending))
	assert.False(t, TerminalStatus(IssueStatusAssigned))
	assert.False(t, TerminalStatus(IssueStatusInProgress))
}

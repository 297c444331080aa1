package domain

// transition is a (from, to) pair in the status graph.
type transition struct {
	From IssueStatus
	To   IssueStatus
}

// stepwiseTransitions is the guided path department staff follow.
var stepwiseTransitions = map[transition]struct{}{
	{IssueStatusPending, IssueStatusInProgress}:  {},
	{IssueStatusAssigned, IssueStatusInProgress}: {},
	{IssueStatusInProgress, IssueStatusResolved}: {},
	{IssueStatusInProgress, IssueStatusRejected}: {},
}

// RoleMayUpdateStatus reports whether the role is allowed to call the
// status update operation at all. Students never are.
func RoleMayUpdateStatus(role Role) bool {
	return role == RoleDeptStaff || role == RoleDSWAdmin
}

// RoleMayAssign reports whether the role may assign handlers.
func RoleMayAssign(role Role) bool {
	return role == RoleDSWAdmin
}

// CanTransition reports whether the role may move an issue from one
// status to another. Staff follow the stepwise path; admins additionally
// hold a direct override into either terminal state from anywhere,
// an intentional shortcut for the review flow rather than a missing guard.
func CanTransition(role Role, from, to IssueStatus) bool {
	if !ValidStatus(to) {
		return false
	}
	switch role {
	case RoleDeptStaff:
		_, ok := stepwiseTransitions[transition{from, to}]
		return ok
	case RoleDSWAdmin:
		if TerminalStatus(to) {
			return true
		}
		_, ok := stepwiseTransitions[transition{from, to}]
		return ok
	default:
		return false
	}
}

// CanAssign reports whether an issue in the given status accepts a
// handler assignment. Re-assigning an already assigned issue overwrites
// the previous assignee without error.
func CanAssign(from IssueStatus) bool {
	return from == IssueStatusPending || from == IssueStatusAssigned
}

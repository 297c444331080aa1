package domain

import "time"

// Role enumerates the actors recognised by the issue lifecycle.
type Role string

const (
	RoleStudent   Role = "student"
	RoleDSWAdmin  Role = "dsw_admin"
	RoleDeptStaff Role = "dept_staff"
)

// ValidRole reports whether the value is one of the three known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleDSWAdmin, RoleDeptStaff:
		return true
	}
	return false
}

// User is a reporter or handler account. The lifecycle engine treats
// users as read-only input; only registration creates them.
type User struct {
	ID            string
	Email         string
	FullName      string
	PasswordHash  string
	Role          Role
	Department    *string
	StudentNumber *string
	Phone         *string
	CreatedAt     time.Time
}

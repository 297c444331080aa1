package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/issue-reporting-service/internal/auth"
	"github.com/spec-kit/issue-reporting-service/internal/domain"
	"github.com/spec-kit/issue-reporting-service/internal/repository"
)

func TestSeedDemoAccounts(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	seedDemoAccounts(ctx, store.Users(), 4, zap.NewNop())

	wantRoles := map[string]domain.Role{
		"student@uiu.ac.bd": domain.RoleStudent,
		"admin@uiu.ac.bd":   domain.RoleDSWAdmin,
		"staff@uiu.ac.bd":   domain.RoleDeptStaff,
	}
	for email, role := range wantRoles {
		user, err := store.Users().GetByEmail(ctx, email)
		require.NoError(t, err, email)
		assert.Equal(t, role, user.Role)
		assert.NotEmpty(t, user.PasswordHash)
		// Staff visibility is scoped by department, so a seeded
		// department must come from the canonical list.
		if user.Department != nil {
			assert.True(t, domain.KnownDepartment(*user.Department), *user.Department)
		}
	}

	staff, err := store.Users().GetByEmail(ctx, "staff@uiu.ac.bd")
	require.NoError(t, err)
	require.NotNil(t, staff.Department)
	assert.NoError(t, auth.ComparePassword(staff.PasswordHash, "staff123"))
}

// internal/permissions/permissions_test.go
package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/models"
)

func userWithRole(role string) *models.User {
	return &models.User{Role: &models.Role{Name: role}}
}

func TestRolePermissions(t *testing.T) {
	t.Run("admin holds every permission", func(t *testing.T) {
		perms, ok := RolePermissions("admin")
		require.True(t, ok)
		assert.ElementsMatch(t, All, perms)
	})

	t.Run("staff cannot approve loans", func(t *testing.T) {
		perms, ok := RolePermissions("staff")
		require.True(t, ok)
		assert.NotContains(t, perms, ApproveLoans)
		assert.NotContains(t, perms, ManageUsers)
		assert.Contains(t, perms, CreateLoans)
	})

	t.Run("manage does not imply view", func(t *testing.T) {
		perms, ok := RolePermissions("staff")
		require.True(t, ok)
		assert.Contains(t, perms, ManageTransactions)
		assert.NotContains(t, perms, ManageCustomers)
	})

	t.Run("unknown role is not granted anything", func(t *testing.T) {
		perms, ok := RolePermissions("auditor")
		assert.False(t, ok)
		assert.Empty(t, perms)
	})
}

func TestCheck(t *testing.T) {
	t.Run("nil user is an authentication failure", func(t *testing.T) {
		err := Check(nil, ViewLoans)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))
	})

	t.Run("unknown role is an authorization failure", func(t *testing.T) {
		err := Check(userWithRole("intern"), ViewLoans)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
		assert.Contains(t, err.Error(), "invalid role")
	})

	t.Run("missing permission names the token", func(t *testing.T) {
		err := Check(userWithRole("staff"), ApproveLoans)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
		assert.Contains(t, err.Error(), string(ApproveLoans))
	})

	t.Run("all required permissions must be held", func(t *testing.T) {
		err := Check(userWithRole("manager"), ViewLoans, ManageUsers)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
	})

	t.Run("granted set passes", func(t *testing.T) {
		assert.NoError(t, Check(userWithRole("manager"), ViewLoans, ApproveLoans))
		assert.NoError(t, Check(userWithRole("staff"), ViewCustomers))
		assert.NoError(t, Check(userWithRole("admin"), All...))
	})

	t.Run("role name casing does not matter", func(t *testing.T) {
		assert.NoError(t, Check(userWithRole("Admin"), ManageUsers))
		assert.NoError(t, Check(userWithRole("STAFF"), ViewCustomers))
	})
}

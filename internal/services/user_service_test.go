// internal/services/user_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/models"
)

func seedRole(t *testing.T, db *gorm.DB, name string) *models.Role {
	t.Helper()

	role := &models.Role{Name: name}
	require.NoError(t, db.Create(role).Error)
	return role
}

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	role := seedRole(t, db, "staff")

	t.Run("hashes the password and links the role", func(t *testing.T) {
		user, err := svc.CreateUser(&CreateUserRequest{
			Username: "clerk_one",
			Email:    "clerk.one@example.com",
			Password: "Str0ngPass!",
			RoleID:   role.ID,
		})
		require.NoError(t, err)

		assert.NotEqual(t, "Str0ngPass!", user.PasswordHash)
		assert.NoError(t, user.CheckPassword("Str0ngPass!"))
		assert.Error(t, user.CheckPassword("wrong"))
		assert.True(t, user.IsActive)
	})

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		_, err := svc.CreateUser(&CreateUserRequest{
			Username: "clerk_one",
			Email:    "other@example.com",
			Password: "Str0ngPass!",
			RoleID:   role.ID,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("weak password fails validation", func(t *testing.T) {
		_, err := svc.CreateUser(&CreateUserRequest{
			Username: "clerk_two",
			Email:    "clerk.two@example.com",
			Password: "short",
			RoleID:   role.ID,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("unknown role is a not found error", func(t *testing.T) {
		orphan := seedRole(t, db, "ghost")
		require.NoError(t, db.Delete(orphan).Error)

		_, err := svc.CreateUser(&CreateUserRequest{
			Username: "clerk_three",
			Email:    "clerk.three@example.com",
			Password: "Str0ngPass!",
			RoleID:   orphan.ID,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestDeactivateUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	role := seedRole(t, db, "staff")

	user, err := svc.CreateUser(&CreateUserRequest{
		Username: "leaving_soon",
		Email:    "leaving@example.com",
		Password: "Str0ngPass!",
		RoleID:   role.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateUser(user.ID))

	reloaded, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
}

func TestRoles(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	t.Run("duplicate role name is a conflict", func(t *testing.T) {
		_, err := svc.CreateRole(&CreateRoleRequest{Name: "manager"})
		require.NoError(t, err)

		_, err = svc.CreateRole(&CreateRoleRequest{Name: "manager"})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("a role in use cannot be deleted", func(t *testing.T) {
		role := seedRole(t, db, "staff")
		_, err := svc.CreateUser(&CreateUserRequest{
			Username: "role_holder",
			Email:    "holder@example.com",
			Password: "Str0ngPass!",
			RoleID:   role.ID,
		})
		require.NoError(t, err)

		err = svc.DeleteRole(role.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("an unused role can be deleted", func(t *testing.T) {
		role := seedRole(t, db, "night_auditor")
		require.NoError(t, svc.DeleteRole(role.ID))

		roles, err := svc.GetRoles()
		require.NoError(t, err)
		for _, r := range roles {
			assert.NotEqual(t, "night_auditor", r.Name)
		}
	})
}

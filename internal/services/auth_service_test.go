// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/config"
	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 1,
		},
	}
}

func seedUser(t *testing.T, db *gorm.DB, username, password string, active bool) *models.User {
	t.Helper()

	role := &models.Role{Name: "staff"}
	if err := db.Where("name = ?", "staff").First(role).Error; err != nil {
		require.NoError(t, db.Create(role).Error)
	}

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		RoleID:   role.ID,
		IsActive: active,
	}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())
	utils.SetJWTSecret("test-secret")

	seedUser(t, db, "front_desk", "Str0ngPass!", true)

	t.Run("issues a bearer token", func(t *testing.T) {
		resp, err := svc.Login(&LoginRequest{Username: "front_desk", Password: "Str0ngPass!"})
		require.NoError(t, err)

		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, 3600, resp.ExpiresIn)
		require.NotNil(t, resp.User)
		assert.Equal(t, "staff", resp.User.RoleName())
		assert.NotNil(t, resp.User.LastLoginAt)

		claims, err := utils.ValidateJWT(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "front_desk", claims.Username)
		assert.Equal(t, "staff", claims.Role)
	})

	t.Run("accepts the email address in place of the username", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{Username: "front_desk@example.com", Password: "Str0ngPass!"})
		require.NoError(t, err)
	})

	t.Run("wrong password fails without leaking which part was wrong", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{Username: "front_desk", Password: "nope"})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))
		assert.Contains(t, err.Error(), "incorrect username or password")

		_, err = svc.Login(&LoginRequest{Username: "no_such_user", Password: "nope"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "incorrect username or password")
	})

	t.Run("deactivated accounts cannot log in", func(t *testing.T) {
		seedUser(t, db, "former_staff", "Str0ngPass!", false)

		_, err := svc.Login(&LoginRequest{Username: "former_staff", Password: "Str0ngPass!"})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))
		assert.Contains(t, err.Error(), "deactivated")
	})
}

func TestGetCurrentUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())

	user := seedUser(t, db, "profile_user", "Str0ngPass!", true)

	loaded, err := svc.GetCurrentUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "profile_user", loaded.Username)
	require.NotNil(t, loaded.Role)
	assert.Equal(t, "staff", loaded.Role.Name)

	require.NoError(t, db.Delete(user).Error)
	_, err = svc.GetCurrentUser(user.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

// internal/services/auth_service.go
package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/config"
	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

type AuthService struct {
	db     *gorm.DB
	config *config.Config
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        *models.User `json:"user"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, config: cfg}
}

// Login verifies the credentials and issues a JWT. Username lookup also
// accepts the email address.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid login request: %v", err)
	}

	var user models.User
	err := s.db.Preload("Role").
		Where("username = ? OR email = ?", req.Username, req.Username).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.Authentication("incorrect username or password")
		}
		return nil, err
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.Authentication("incorrect username or password")
	}

	if !user.IsActive {
		return nil, apperrors.Authentication("account is deactivated")
	}

	token, err := utils.GenerateJWT(user.ID, user.Username, user.RoleName(), s.config.JWT.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.db.Model(&user).Update("last_login_at", now)
	user.LastLoginAt = &now

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.config.JWT.AccessTokenTTL * 3600,
		User:        &user,
	}, nil
}

// GetCurrentUser reloads the authenticated user with role and employee info.
func (s *AuthService) GetCurrentUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Role").
		Preload("Employee").Preload("Employee.Branch").Preload("Employee.EmployeeType").
		Where("id = ?", userID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("User")
		}
		return nil, err
	}
	return &user, nil
}

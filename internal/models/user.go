// internal/models/user.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role names are lowercase and must match a key in the permissions table.
type Role struct {
	BaseModel
	Name        string `json:"name" gorm:"uniqueIndex;size:50;not null"`
	Description string `json:"description" gorm:"size:255"`

	Users []User `json:"users,omitempty" gorm:"foreignKey:RoleID"`
}

type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	FirstName    string     `json:"first_name" gorm:"size:100"`
	LastName     string     `json:"last_name" gorm:"size:100"`
	RoleID       uuid.UUID  `json:"role_id" gorm:"type:uuid;not null"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Role     *Role     `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// RoleName returns the lowercase role name, or "" when the role is not loaded.
// Permission lookups key on the lowercase form whatever casing the row holds.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return strings.ToLower(u.Role.Name)
}

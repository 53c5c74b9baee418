// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/permissions"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

const (
	// SessionCookie is the cookie the login endpoint sets; the same token is
	// also accepted as a bearer header.
	SessionCookie = "access_token"

	currentUserKey = "current_user"
)

// extractToken reads the JWT from the Authorization header, falling back to
// the session cookie.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// AuthRequired validates the request token and loads the user with its role
// into the request context. Requests without a valid session get a 401.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		var user models.User
		if err := db.Preload("Role").Where("id = ? AND is_active = ?", claims.UserID, true).
			First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		c.Set(currentUserKey, &user)
		c.Set("user_id", user.ID.String())
		c.Set("username", user.Username)
		c.Next()
	}
}

// RequirePermissions gates the handler body on the caller's role holding all
// of the given permission tokens. Must run after AuthRequired.
func RequirePermissions(required ...permissions.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)

		if err := permissions.Check(user, required...); err != nil {
			utils.HandleServiceError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil outside an authenticated
// request.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(currentUserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

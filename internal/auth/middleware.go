package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thatcatcamp/catbox/internal/db"
	"github.com/thatcatcamp/catbox/internal/models"
)

// tokenFromRequest extracts the JWT from the Authorization header,
// falling back to the session cookie
func tokenFromRequest(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	cookie, err := c.Cookie("catbox_token")
	if err != nil {
		return ""
	}
	return cookie
}

// authenticate validates the JWT token and loads the account into the gin
// context under "user". Returns false after aborting the request when
// authentication fails. It never advances the handler chain itself, so
// callers can run further checks before any handler executes.
func authenticate(c *gin.Context) bool {
	token := tokenFromRequest(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return false
	}

	// Validate token
	claims, err := ValidateToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	// Load user from database
	var user models.User
	if err := db.GetDB().First(&user, claims.UserID).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	// Set user in context for handlers
	c.Set("user", &user)
	return true
}

// RequireAuth middleware validates the JWT token and loads the account
// into the gin context under "user"
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		c.Next()
	}
}

// RequireAdmin middleware requires admin privileges. The admin check runs
// before the chain advances, so a non-admin never reaches the handler.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}

		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administrator access required"})
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user from the gin context, or nil
func CurrentUser(c *gin.Context) *models.User {
	userVal, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := userVal.(*models.User)
	if !ok {
		return nil
	}
	return user
}

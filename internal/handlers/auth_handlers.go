// SPDX-License-Identifier: MIT
package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thatcatcamp/catbox/internal/auth"
	"github.com/thatcatcamp/catbox/internal/config"
	"github.com/thatcatcamp/catbox/internal/db"
	"github.com/thatcatcamp/catbox/internal/users"
)

// LoginHandler exchanges username and password for a JWT token
func LoginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		return
	}

	// The same generic message for unknown user and wrong password
	user, err := users.GetUserByUsername(db.GetDB(), req.Username)
	if err != nil {
		log.Printf("failed login for %s", req.Username)
		c.JSON(http.StatusForbidden, gin.H{"error": "Wrong username or password"})
		return
	}

	if err := users.ValidatePassword(user, req.Password); err != nil {
		log.Printf("failed login for %s", req.Username)
		c.JSON(http.StatusForbidden, gin.H{"error": "Wrong username or password"})
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		log.Printf("token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Cookie for browser clients; API clients use the Authorization header
	expiryHours := config.GetInt("auth.jwt_expiry_hours")
	if expiryHours == 0 {
		expiryHours = 8
	}
	c.SetCookie("catbox_token", token, expiryHours*3600, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListUsersHandler returns all accounts. Admin only.
func ListUsersHandler(c *gin.Context) {
	list, err := users.ListUsers(db.GetDB())
	if err != nil {
		log.Printf("list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	out := make([]gin.H, 0, len(list))
	for _, u := range list {
		out = append(out, gin.H{
			"username":   u.Username,
			"is_admin":   u.IsAdmin,
			"created_at": u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": out})
}

// WhoamiHandler reports the authenticated user
func WhoamiHandler(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": user.Username,
		"is_admin": user.IsAdmin,
	})
}

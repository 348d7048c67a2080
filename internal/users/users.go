package users

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thatcatcamp/catbox/internal/auth"
	"github.com/thatcatcamp/catbox/internal/models"
	"gorm.io/gorm"
)

// Usernames name the per-user directory under the storage root, so the
// charset must stay filesystem-safe.
var usernamePattern = regexp.MustCompile(`^[a-z0-9_-]{2,32}$`)

// ValidateUsername checks that a username is acceptable as a vault
// directory name
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username must be 2-32 characters of a-z, 0-9, _ or -")
	}
	return nil
}

// CreateUser creates a new user with hashed password
// If a soft-deleted user exists with this username, it will be restored
func CreateUser(db *gorm.DB, username, password string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	// Check if active user already exists
	var existing models.User
	result := db.Where("username = ?", username).First(&existing)
	if result.Error == nil {
		return nil, fmt.Errorf("user %s already exists", username)
	}

	// Hash password
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Check for soft-deleted user with this username
	var deletedUser models.User
	deletedResult := db.Unscoped().Where("username = ? AND deleted_at IS NOT NULL", username).First(&deletedUser)

	var user *models.User
	if deletedResult.Error == nil {
		// Found a soft-deleted user - restore them with new password
		user = &deletedUser
		if err := db.Unscoped().Model(user).Updates(map[string]interface{}{
			"deleted_at":    nil,
			"password_hash": hashedPassword,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to restore user: %w", err)
		}
	} else {
		// No deleted user found - create new user
		user = &models.User{
			Username:     username,
			PasswordHash: hashedPassword,
		}

		if err := db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	return user, nil
}

// GetUserByUsername retrieves a user by username
func GetUserByUsername(db *gorm.DB, username string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	var user models.User
	result := db.Where("username = ?", username).First(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found: %w", result.Error)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func GetUserByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	result := db.First(&user, id)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found: %w", result.Error)
	}
	return &user, nil
}

// ListUsers returns all users
func ListUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	result := db.Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list users: %w", result.Error)
	}
	return users, nil
}

// DeleteUser soft-deletes a user
func DeleteUser(db *gorm.DB, id uint) error {
	result := db.Delete(&models.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// ValidatePassword checks if a password matches the user's hash
func ValidatePassword(user *models.User, password string) error {
	if !auth.CheckPassword(password, user.PasswordHash) {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

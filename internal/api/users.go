package api

import (
	"net/http" // HTTP status codes
	"time"     // Timestamps
	"unicode"  // Rune classification

	"travel_tracker/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// UserUpdateRequest carries a partial profile update. Only fields present in
// the payload are applied; identity, timestamps and verification/activity
// flags are never updatable regardless of payload content.
type UserUpdateRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

// PublicUserResponse is the cross-user view of a profile
type PublicUserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Avatar    string    `json:"avatar"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

// validPhone checks the digit count of an optional phone number
func validPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits == 0 || (digits >= 10 && digits <= 20)
}

// applyUserUpdate merges only the provided fields into the user. The mutable
// field set is enumerated here; everything else is excluded by construction.
func applyUserUpdate(user *domain.User, req *UserUpdateRequest) {
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
}

// GetMeHandler returns the authenticated user's profile
func GetMeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		var user domain.User
		if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateMeHandler applies a partial update to the authenticated user's profile
func UpdateMeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		var req UserUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Phone != nil && !validPhone(*req.Phone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number must contain 10 to 20 digits"})
			return
		}
		var user domain.User
		if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		applyUserUpdate(&user, &req)
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GetUserHandler returns another user's public profile
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user domain.User
		if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, PublicUserResponse{
			ID:        user.ID,
			Username:  user.Username,
			FullName:  user.FullName,
			Avatar:    user.Avatar,
			Bio:       user.Bio,
			CreatedAt: user.CreatedAt,
		})
	}
}

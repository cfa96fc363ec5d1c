package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User Model
type User struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"` // UUID primary key
	Username       string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"type:varchar(128);not null" json:"-"` // Never serialized
	FullName       string    `gorm:"type:varchar(100)" json:"full_name"`
	Phone          string    `gorm:"type:varchar(20)" json:"phone"`
	Avatar         string    `gorm:"type:varchar(200)" json:"avatar"` // Avatar URL
	Bio            string    `gorm:"type:text" json:"bio"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	IsVerified     bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key before insert
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

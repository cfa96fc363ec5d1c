package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Travel log visibility tiers
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
	VisibilityFriends = "friends"
)

// IsValidVisibility reports whether v is a known visibility tier
func IsValidVisibility(v string) bool {
	return v == VisibilityPublic || v == VisibilityPrivate || v == VisibilityFriends
}

// TravelLog Model: a journal entry owned by a user, optionally tied to a plan.
// TravelPlanID is not constrained: it may dangle after the plan is deleted.
type TravelLog struct {
	ID           string     `gorm:"type:varchar(36);primaryKey" json:"id"` // UUID primary key
	Title        string     `gorm:"type:varchar(200);not null" json:"title"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	LogDate      time.Time  `gorm:"not null;index" json:"log_date"`
	Location     string     `gorm:"type:varchar(200)" json:"location"`
	Latitude     *float64   `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude    *float64   `gorm:"type:decimal(11,8)" json:"longitude"`
	Weather      string     `gorm:"type:varchar(100)" json:"weather"`
	Mood         string     `gorm:"type:varchar(50)" json:"mood"`
	Images       []string   `gorm:"serializer:json" json:"images"`
	Tags         string     `gorm:"type:varchar(500)" json:"tags"` // Comma separated
	IsPublic     string     `gorm:"type:varchar(10);default:private" json:"is_public"`
	AuthorID     string     `gorm:"type:varchar(36);index;not null" json:"author_id"`
	TravelPlanID *string    `gorm:"type:varchar(36);index" json:"travel_plan_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key before insert
func (l *TravelLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.IsPublic == "" {
		l.IsPublic = VisibilityPrivate
	}
	return nil
}

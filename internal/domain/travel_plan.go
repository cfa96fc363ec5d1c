package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TravelStatus is the lifecycle state of a travel plan
type TravelStatus string

// Travel plan statuses
const (
	StatusPlanning   TravelStatus = "planning"
	StatusConfirmed  TravelStatus = "confirmed"
	StatusInProgress TravelStatus = "in_progress"
	StatusCompleted  TravelStatus = "completed"
	StatusCancelled  TravelStatus = "cancelled"
)

// IsValid reports whether s is a known travel status
func (s TravelStatus) IsValid() bool {
	switch s {
	case StatusPlanning, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TravelPlan Model: the top-level container a user creates for one trip
type TravelPlan struct {
	ID          string       `gorm:"type:varchar(36);primaryKey" json:"id"` // UUID primary key
	Title       string       `gorm:"type:varchar(200);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Destination string       `gorm:"type:varchar(100);not null" json:"destination"`
	StartDate   time.Time    `gorm:"type:date;not null" json:"start_date"`
	EndDate     time.Time    `gorm:"type:date;not null" json:"end_date"` // Must not precede StartDate
	Budget      *float64     `gorm:"type:decimal(12,2)" json:"budget"`   // Optional, non-negative
	Status      TravelStatus `gorm:"type:varchar(20);default:planning" json:"status"`
	CoverImage  string       `gorm:"type:varchar(200)" json:"cover_image"`
	Tags        string       `gorm:"type:varchar(500)" json:"tags"` // Comma separated
	OwnerID     string       `gorm:"type:varchar(36);index;not null" json:"owner_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key before insert
func (p *TravelPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = StatusPlanning
	}
	return nil
}

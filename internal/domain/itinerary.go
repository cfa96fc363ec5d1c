package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityType classifies one itinerary entry
type ActivityType string

// Itinerary activity types
const (
	ActivityTransportation ActivityType = "transportation"
	ActivityAccommodation  ActivityType = "accommodation"
	ActivitySightseeing    ActivityType = "sightseeing"
	ActivityDining         ActivityType = "dining"
	ActivityShopping       ActivityType = "shopping"
	ActivityEntertainment  ActivityType = "entertainment"
	ActivityOther          ActivityType = "other"
)

// IsValid reports whether a is a known activity type
func (a ActivityType) IsValid() bool {
	switch a {
	case ActivityTransportation, ActivityAccommodation, ActivitySightseeing,
		ActivityDining, ActivityShopping, ActivityEntertainment, ActivityOther:
		return true
	}
	return false
}

// Itinerary Model: one scheduled activity inside a travel plan.
// Itineraries are cascade-deleted with their plan.
type Itinerary struct {
	ID               string       `gorm:"type:varchar(36);primaryKey" json:"id"` // UUID primary key
	DayNumber        int          `gorm:"not null" json:"day_number"`            // 1-based day within the trip
	ActivityType     ActivityType `gorm:"type:varchar(20);not null" json:"activity_type"`
	Title            string       `gorm:"type:varchar(200);not null" json:"title"`
	Description      string       `gorm:"type:text" json:"description"`
	Location         string       `gorm:"type:varchar(200)" json:"location"`
	Address          string       `gorm:"type:varchar(300)" json:"address"`
	Latitude         *float64     `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude        *float64     `gorm:"type:decimal(11,8)" json:"longitude"`
	StartTime        *time.Time   `json:"start_time"`
	EndTime          *time.Time   `json:"end_time"` // Must follow StartTime when both set
	EstimatedCost    *float64     `gorm:"type:decimal(10,2)" json:"estimated_cost"`
	BookingReference string       `gorm:"type:varchar(100)" json:"booking_reference"`
	Notes            string       `gorm:"type:text" json:"notes"`
	TravelPlanID     string       `gorm:"type:varchar(36);index;not null" json:"travel_plan_id"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key before insert
func (i *Itinerary) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

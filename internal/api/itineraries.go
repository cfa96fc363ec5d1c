package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Time windows

	"travel_tracker/internal/domain" // Importing domain models
	"travel_tracker/internal/store"  // Ownership-scoped queries

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// ItineraryCreateRequest carries a new itinerary payload
type ItineraryCreateRequest struct {
	DayNumber        int        `json:"day_number" binding:"required,gt=0"`
	ActivityType     string     `json:"activity_type" binding:"required"`
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	Address          string     `json:"address"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	EstimatedCost    *float64   `json:"estimated_cost"`
	BookingReference string     `json:"booking_reference"`
	Notes            string     `json:"notes"`
	TravelPlanID     string     `json:"travel_plan_id" binding:"required"`
}

// ItineraryUpdateRequest carries a partial itinerary update. The plan
// reference is not among the mutable fields.
type ItineraryUpdateRequest struct {
	DayNumber        *int       `json:"day_number"`
	ActivityType     *string    `json:"activity_type"`
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	Location         *string    `json:"location"`
	Address          *string    `json:"address"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	EstimatedCost    *float64   `json:"estimated_cost"`
	BookingReference *string    `json:"booking_reference"`
	Notes            *string    `json:"notes"`
}

// validTimeWindow checks end > start when both ends are set
func validTimeWindow(start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	return end.After(*start)
}

// CreateItineraryHandler creates an itinerary under an owned plan
func CreateItineraryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		var req ItineraryCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if isBlank(req.Title) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title must not be empty"})
			return
		}
		activity := domain.ActivityType(req.ActivityType)
		if !activity.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown activity type"})
			return
		}
		if !validTimeWindow(req.StartTime, req.EndTime) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "End time must follow start time"})
			return
		}
		// The referenced plan must exist and be owned by the acting user
		plan, err := store.PlanForOwner(db, req.TravelPlanID, userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Travel plan not found"})
			return
		}
		item := domain.Itinerary{
			DayNumber:        req.DayNumber,
			ActivityType:     activity,
			Title:            strings.TrimSpace(req.Title),
			Description:      req.Description,
			Location:         req.Location,
			Address:          req.Address,
			Latitude:         req.Latitude,
			Longitude:        req.Longitude,
			StartTime:        req.StartTime,
			EndTime:          req.EndTime,
			EstimatedCost:    req.EstimatedCost,
			BookingReference: req.BookingReference,
			Notes:            req.Notes,
			TravelPlanID:     plan.ID,
		}
		if err := db.Create(&item).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"plan_id": plan.ID,
				"error":   err.Error(),
			}).Error("Failed to create itinerary")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create itinerary"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// ListItinerariesHandler lists itineraries for an owned plan
func ListItinerariesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		planID := c.Query("travel_plan_id")
		if planID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "travel_plan_id is required"})
			return
		}
		plan, err := store.PlanForOwner(db, planID, userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Travel plan not found"})
			return
		}
		activity := domain.ActivityType(c.Query("activity_type"))
		if activity != "" && !activity.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown activity type"})
			return
		}
		dayNumber := 0
		if d := c.Query("day_number"); d != "" {
			if v, err := strconv.Atoi(d); err == nil && v > 0 {
				dayNumber = v
			}
		}
		skip, limit := pageParams(c)
		items, err := store.ListItineraries(db, store.ItineraryFilter{
			TravelPlanID: plan.ID,
			DayNumber:    dayNumber,
			ActivityType: activity,
			Skip:         skip,
			Limit:        limit,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch itineraries"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// GetItineraryHandler returns one itinerary whose plan the acting user owns
func GetItineraryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		item, err := store.ItineraryForOwner(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// applyItineraryUpdate merges provided fields into the itinerary, validating
// each one. It returns a client-facing message on rejection.
func applyItineraryUpdate(item *domain.Itinerary, req *ItineraryUpdateRequest) string {
	if req.DayNumber != nil {
		if *req.DayNumber <= 0 {
			return "Day number must be greater than zero"
		}
		item.DayNumber = *req.DayNumber
	}
	if req.ActivityType != nil {
		activity := domain.ActivityType(*req.ActivityType)
		if !activity.IsValid() {
			return "Unknown activity type"
		}
		item.ActivityType = activity
	}
	if req.Title != nil {
		if isBlank(*req.Title) {
			return "Title must not be empty"
		}
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.Address != nil {
		item.Address = *req.Address
	}
	if req.Latitude != nil {
		item.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		item.Longitude = req.Longitude
	}
	if req.StartTime != nil {
		item.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		item.EndTime = req.EndTime
	}
	if !validTimeWindow(item.StartTime, item.EndTime) {
		return "End time must follow start time"
	}
	if req.EstimatedCost != nil {
		item.EstimatedCost = req.EstimatedCost
	}
	if req.BookingReference != nil {
		item.BookingReference = *req.BookingReference
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	return ""
}

// UpdateItineraryHandler applies a partial update to an itinerary whose plan
// the acting user owns
func UpdateItineraryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		var req ItineraryUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		item, err := store.ItineraryForOwner(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
			return
		}
		if msg := applyItineraryUpdate(item, &req); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		if err := db.Save(item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update itinerary"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DeleteItineraryHandler deletes an itinerary whose plan the acting user owns
func DeleteItineraryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		item, err := store.ItineraryForOwner(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
			return
		}
		if err := db.Delete(item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete itinerary"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Itinerary deleted"})
	}
}

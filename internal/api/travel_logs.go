package api

import (
	"errors"
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Log dates

	"travel_tracker/internal/domain" // Importing domain models
	"travel_tracker/internal/store"  // Ownership-scoped queries

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// TravelLogCreateRequest carries a new travel log payload
type TravelLogCreateRequest struct {
	Title        string    `json:"title" binding:"required"`
	Content      string    `json:"content" binding:"required"`
	LogDate      time.Time `json:"log_date" binding:"required"`
	Location     string    `json:"location"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	Weather      string    `json:"weather"`
	Mood         string    `json:"mood"`
	Images       []string  `json:"images"`
	Tags         string    `json:"tags"`
	IsPublic     string    `json:"is_public"`
	TravelPlanID *string   `json:"travel_plan_id"`
}

// TravelLogUpdateRequest carries a partial travel log update
type TravelLogUpdateRequest struct {
	Title     *string    `json:"title"`
	Content   *string    `json:"content"`
	LogDate   *time.Time `json:"log_date"`
	Location  *string    `json:"location"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	Weather   *string    `json:"weather"`
	Mood      *string    `json:"mood"`
	Images    *[]string  `json:"images"`
	Tags      *string    `json:"tags"`
	IsPublic  *string    `json:"is_public"`
}

// CreateTravelLogHandler creates a travel log authored by the acting user
func CreateTravelLogHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		var req TravelLogCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if isBlank(req.Title) || isBlank(req.Content) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content must not be empty"})
			return
		}
		if req.IsPublic != "" && !domain.IsValidVisibility(req.IsPublic) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown visibility"})
			return
		}
		var planID *string
		if req.TravelPlanID != nil {
			// The referenced plan must exist and be owned by the acting user
			plan, err := store.PlanForOwner(db, *req.TravelPlanID, userID)
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Travel plan not found"})
				return
			}
			planID = &plan.ID
		}
		log := domain.TravelLog{
			Title:        strings.TrimSpace(req.Title),
			Content:      req.Content,
			LogDate:      req.LogDate,
			Location:     req.Location,
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
			Weather:      req.Weather,
			Mood:         req.Mood,
			Images:       req.Images,
			Tags:         req.Tags,
			IsPublic:     req.IsPublic,
			AuthorID:     userID,
			TravelPlanID: planID,
		}
		if err := db.Create(&log).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"author_id": userID,
				"error":     err.Error(),
			}).Error("Failed to create travel log")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create travel log"})
			return
		}
		c.JSON(http.StatusCreated, log)
	}
}

// ListTravelLogsHandler lists logs visible to the acting user: public
// records plus the user's own, narrowed by the optional filters
func ListTravelLogsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		visibility := c.Query("is_public")
		if visibility != "" && !domain.IsValidVisibility(visibility) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown visibility"})
			return
		}
		skip, limit := pageParams(c)
		logs, err := store.ListTravelLogs(db, store.LogFilter{
			ViewerID:     userID,
			TravelPlanID: c.Query("travel_plan_id"),
			IsPublic:     visibility,
			Skip:         skip,
			Limit:        limit,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch travel logs"})
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}

// MyTravelLogsHandler lists the acting user's own logs regardless of privacy
func MyTravelLogsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		skip, limit := pageParams(c)
		logs, err := store.ListTravelLogs(db, store.LogFilter{
			ViewerID:     userID,
			OwnOnly:      true,
			TravelPlanID: c.Query("travel_plan_id"),
			Skip:         skip,
			Limit:        limit,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch travel logs"})
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}

// LatestPublicLogsHandler returns the most recent public logs without
// requiring authentication
func LatestPublicLogsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if l := c.Query("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 {
				limit = v
			}
		}
		logs, err := store.LatestPublicLogs(db, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch travel logs"})
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}

// GetTravelLogHandler returns a single log. A record that exists but is
// neither public nor owned yields Forbidden; this is the one path that
// distinguishes visibility from nonexistence.
func GetTravelLogHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		log, err := store.LogForViewer(db, c.Param("id"), userID)
		if err != nil {
			if errors.Is(err, store.ErrLogNotVisible) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Travel log is not public"})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "Travel log not found"})
			return
		}
		c.JSON(http.StatusOK, log)
	}
}

// applyLogUpdate merges provided fields into the log, validating each one.
// It returns a client-facing message on rejection.
func applyLogUpdate(log *domain.TravelLog, req *TravelLogUpdateRequest) string {
	if req.Title != nil {
		if isBlank(*req.Title) {
			return "Title must not be empty"
		}
		log.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		if isBlank(*req.Content) {
			return "Content must not be empty"
		}
		log.Content = *req.Content
	}
	if req.LogDate != nil {
		log.LogDate = *req.LogDate
	}
	if req.Location != nil {
		log.Location = *req.Location
	}
	if req.Latitude != nil {
		log.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		log.Longitude = req.Longitude
	}
	if req.Weather != nil {
		log.Weather = *req.Weather
	}
	if req.Mood != nil {
		log.Mood = *req.Mood
	}
	if req.Images != nil {
		log.Images = *req.Images
	}
	if req.Tags != nil {
		log.Tags = *req.Tags
	}
	if req.IsPublic != nil {
		if !domain.IsValidVisibility(*req.IsPublic) {
			return "Unknown visibility"
		}
		log.IsPublic = *req.IsPublic
	}
	return ""
}

// UpdateTravelLogHandler applies a partial update to an authored log
func UpdateTravelLogHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		var req TravelLogUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		log, err := store.LogForAuthor(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Travel log not found"})
			return
		}
		if msg := applyLogUpdate(log, &req); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		if err := db.Save(log).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update travel log"})
			return
		}
		c.JSON(http.StatusOK, log)
	}
}

// DeleteTravelLogHandler deletes an authored log
func DeleteTravelLogHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		log, err := store.LogForAuthor(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Travel log not found"})
			return
		}
		if err := db.Delete(log).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete travel log"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"author_id": userID,
			"log_id":    log.ID,
		}).Info("Travel log deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Travel log deleted"})
	}
}

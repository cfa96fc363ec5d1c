package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Date parsing

	"travel_tracker/internal/domain" // Importing domain models
	"travel_tracker/internal/store"  // Ownership-scoped queries

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// TravelPlanCreateRequest carries a new plan payload. Dates use YYYY-MM-DD.
type TravelPlanCreateRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Destination string   `json:"destination" binding:"required"`
	StartDate   string   `json:"start_date" binding:"required"`
	EndDate     string   `json:"end_date" binding:"required"`
	Budget      *float64 `json:"budget"`
	Tags        string   `json:"tags"`
}

// TravelPlanUpdateRequest carries a partial plan update
type TravelPlanUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Destination *string  `json:"destination"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Budget      *float64 `json:"budget"`
	Status      *string  `json:"status"`
	CoverImage  *string  `json:"cover_image"`
	Tags        *string  `json:"tags"`
}

// parseDate parses a YYYY-MM-DD value
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(time.DateOnly, s)
	return t, err == nil
}

// CreateTravelPlanHandler creates a travel plan owned by the acting user
func CreateTravelPlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		var req TravelPlanCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if isBlank(req.Title) || len(strings.TrimSpace(req.Title)) > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title must be non-empty and at most 200 characters"})
			return
		}
		if isBlank(req.Destination) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Destination must not be empty"})
			return
		}
		start, okStart := parseDate(req.StartDate)
		end, okEnd := parseDate(req.EndDate)
		if !okStart || !okEnd {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must use YYYY-MM-DD format"})
			return
		}
		if end.Before(start) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "End date must not precede start date"})
			return
		}
		if req.Budget != nil && *req.Budget < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Budget must not be negative"})
			return
		}
		plan := domain.TravelPlan{
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			Destination: strings.TrimSpace(req.Destination),
			StartDate:   start,
			EndDate:     end,
			Budget:      req.Budget,
			Tags:        req.Tags,
			OwnerID:     userID,
		}
		if err := db.Create(&plan).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"owner_id": userID,
				"error":    err.Error(),
			}).Error("Failed to create travel plan")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create travel plan"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"owner_id": userID,
			"plan_id":  plan.ID,
		}).Info("Travel plan created")
		c.JSON(http.StatusCreated, plan)
	}
}

// ListTravelPlansHandler lists the acting user's plans with optional filters
func ListTravelPlansHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		status := domain.TravelStatus(c.Query("status"))
		if status != "" && !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
			return
		}
		skip, limit := pageParams(c)
		plans, err := store.ListPlans(db, store.PlanFilter{
			OwnerID:     userID,
			Status:      status,
			Destination: c.Query("destination"),
			Skip:        skip,
			Limit:       limit,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch travel plans"})
			return
		}
		c.JSON(http.StatusOK, plans)
	}
}

// GetTravelPlanHandler returns one plan owned by the acting user
func GetTravelPlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		plan, err := store.PlanForOwner(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Travel plan not found"})
			return
		}
		c.JSON(http.StatusOK, plan)
	}
}

// applyPlanUpdate merges provided fields into the plan, validating each one.
// It returns a client-facing message on rejection.
func applyPlanUpdate(plan *domain.TravelPlan, req *TravelPlanUpdateRequest) string {
	if req.Title != nil {
		if isBlank(*req.Title) || len(strings.TrimSpace(*req.Title)) > 200 {
			return "Title must be non-empty and at most 200 characters"
		}
		plan.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Destination != nil {
		if isBlank(*req.Destination) {
			return "Destination must not be empty"
		}
		plan.Destination = strings.TrimSpace(*req.Destination)
	}
	if req.StartDate != nil {
		start, ok := parseDate(*req.StartDate)
		if !ok {
			return "Dates must use YYYY-MM-DD format"
		}
		plan.StartDate = start
	}
	if req.EndDate != nil {
		end, ok := parseDate(*req.EndDate)
		if !ok {
			return "Dates must use YYYY-MM-DD format"
		}
		plan.EndDate = end
	}
	if plan.EndDate.Before(plan.StartDate) {
		return "End date must not precede start date"
	}
	if req.Budget != nil {
		if *req.Budget < 0 {
			return "Budget must not be negative"
		}
		plan.Budget = req.Budget
	}
	if req.Status != nil {
		status := domain.TravelStatus(*req.Status)
		if !status.IsValid() {
			return "Unknown status"
		}
		plan.Status = status
	}
	if req.CoverImage != nil {
		plan.CoverImage = *req.CoverImage
	}
	if req.Tags != nil {
		plan.Tags = *req.Tags
	}
	return ""
}

// UpdateTravelPlanHandler applies a partial update to an owned plan
func UpdateTravelPlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		var req TravelPlanUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		plan, err := store.PlanForOwner(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Travel plan not found"})
			return
		}
		if msg := applyPlanUpdate(plan, &req); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		if err := db.Save(plan).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update travel plan"})
			return
		}
		c.JSON(http.StatusOK, plan)
	}
}

// DeleteTravelPlanHandler deletes an owned plan and its itineraries.
// Expenses and travel logs keep their plan reference and are left in place.
func DeleteTravelPlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		plan, err := store.PlanForOwner(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Travel plan not found"})
			return
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("travel_plan_id = ?", plan.ID).Delete(&domain.Itinerary{}).Error; err != nil {
				return err // Return error to rollback
			}
			return tx.Delete(plan).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"owner_id": userID,
				"plan_id":  plan.ID,
				"error":    err.Error(),
			}).Error("Failed to delete travel plan")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete travel plan"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"owner_id": userID,
			"plan_id":  plan.ID,
		}).Info("Travel plan deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Travel plan deleted"})
	}
}

// CreatePlanExpenseHandler creates an expense under a specific owned plan
func CreatePlanExpenseHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		plan, err := store.PlanForOwner(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Travel plan not found"})
			return
		}
		createExpense(c, db, rdb, userID, &plan.ID)
	}
}

// ListPlanExpensesHandler lists expenses for a specific owned plan
func ListPlanExpensesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		plan, err := store.PlanForOwner(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Travel plan not found"})
			return
		}
		skip, limit := pageParams(c)
		category := domain.ExpenseCategory(c.Query("category"))
		if category != "" && !category.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		expenses, err := store.ListExpenses(db, store.ExpenseFilter{
			UserID:       userID,
			TravelPlanID: plan.ID,
			Category:     category,
			Skip:         skip,
			Limit:        limit,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
			return
		}
		c.JSON(http.StatusOK, expenses)
	}
}

// PlanExpenseStatisticsHandler aggregates expenses for a specific owned plan
func PlanExpenseStatisticsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		plan, err := store.PlanForOwner(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Travel plan not found"})
			return
		}
		expenseStatistics(c, db, rdb, userID, plan.ID)
	}
}

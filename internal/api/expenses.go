package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Time durations

	"travel_tracker/internal/domain" // Importing domain models
	"travel_tracker/internal/store"  // Ownership-scoped queries
	"travel_tracker/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// ExpenseCreateRequest carries a new expense payload
type ExpenseCreateRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description"`
	Amount       float64   `json:"amount" binding:"required,gt=0"`
	Currency     string    `json:"currency"`
	Category     string    `json:"category" binding:"required"`
	ExpenseDate  time.Time `json:"expense_date" binding:"required"`
	Location     string    `json:"location"`
	ReceiptImage string    `json:"receipt_image"`
	Notes        string    `json:"notes"`
	TravelPlanID *string   `json:"travel_plan_id"`
}

// ExpenseUpdateRequest carries a partial expense update. The plan reference
// is not among the mutable fields.
type ExpenseUpdateRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Amount       *float64   `json:"amount"`
	Currency     *string    `json:"currency"`
	Category     *string    `json:"category"`
	ExpenseDate  *time.Time `json:"expense_date"`
	Location     *string    `json:"location"`
	ReceiptImage *string    `json:"receipt_image"`
	Notes        *string    `json:"notes"`
}

// statsCacheKey builds the statistics cache key for one user/plan scope
func statsCacheKey(userID, planID string) string {
	if planID == "" {
		planID = "all"
	}
	return "expense_stats:user:" + userID + ":plan:" + planID
}

// invalidateStatsCache drops cached statistics affected by an expense write
func invalidateStatsCache(rdb *redis.Client, userID string, planID *string) {
	ctx := context.Background()
	_ = utils.DeleteCache(ctx, rdb, statsCacheKey(userID, ""))
	if planID != nil {
		_ = utils.DeleteCache(ctx, rdb, statsCacheKey(userID, *planID))
	}
}

// createExpense persists a validated expense for userID. planID overrides
// any plan reference in the payload; plan ownership must already be
// verified by the caller when planID is set.
func createExpense(c *gin.Context, db *gorm.DB, rdb *redis.Client, userID string, planID *string) {
	var req ExpenseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if isBlank(req.Title) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title must not be empty"})
		return
	}
	category := domain.ExpenseCategory(req.Category)
	if !category.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}
	if req.Currency != "" && len(req.Currency) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency must be a 3-letter code"})
		return
	}
	if planID == nil && req.TravelPlanID != nil {
		// The referenced plan must exist and be owned by the acting user;
		// a foreign plan is reported as not found
		plan, err := store.PlanForOwner(db, *req.TravelPlanID, userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Travel plan not found"})
			return
		}
		planID = &plan.ID
	}
	expense := domain.Expense{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Amount:       req.Amount,
		Currency:     strings.ToUpper(req.Currency),
		Category:     category,
		ExpenseDate:  req.ExpenseDate,
		Location:     req.Location,
		ReceiptImage: req.ReceiptImage,
		Notes:        req.Notes,
		UserID:       userID,
		TravelPlanID: planID,
	}
	if err := db.Create(&expense).Error; err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to create expense")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}
	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"expense_id": expense.ID,
		"amount":     expense.Amount,
		"category":   expense.Category,
	}).Info("Expense created")
	invalidateStatsCache(rdb, userID, expense.TravelPlanID)
	c.JSON(http.StatusCreated, expense)
}

// CreateExpenseHandler creates an expense, optionally tied to an owned plan
func CreateExpenseHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		createExpense(c, db, rdb, userID, nil)
	}
}

// ListExpensesHandler lists the acting user's expenses with optional filters
func ListExpensesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		category := domain.ExpenseCategory(c.Query("category"))
		if category != "" && !category.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		skip, limit := pageParams(c)
		expenses, err := store.ListExpenses(db, store.ExpenseFilter{
			UserID:       userID,
			TravelPlanID: c.Query("travel_plan_id"),
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

// expenseStatistics serves the aggregation for one user/plan scope, reading
// through the Redis cache when available
func expenseStatistics(c *gin.Context, db *gorm.DB, rdb *redis.Client, userID, planID string) {
	ctx := context.Background()
	cacheKey := statsCacheKey(userID, planID)
	var cached store.ExpenseStatistics
	found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
	if err == nil && found {
		c.JSON(http.StatusOK, cached)
		return
	}
	stats, err := store.AggregateExpenses(db, userID, planID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}
	_ = utils.SetCache(ctx, rdb, cacheKey, stats, 60*time.Second) // Cache for 60 seconds
	c.JSON(http.StatusOK, stats)
}

// ExpenseStatisticsHandler aggregates the acting user's expenses by category
func ExpenseStatisticsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		expenseStatistics(c, db, rdb, userID, c.Query("travel_plan_id"))
	}
}

// GetExpenseHandler returns one expense owned by the acting user
func GetExpenseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		expense, err := store.ExpenseForOwner(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		c.JSON(http.StatusOK, expense)
	}
}

// applyExpenseUpdate merges provided fields into the expense, validating
// each one. It returns a client-facing message on rejection.
func applyExpenseUpdate(expense *domain.Expense, req *ExpenseUpdateRequest) string {
	if req.Title != nil {
		if isBlank(*req.Title) {
			return "Title must not be empty"
		}
		expense.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return "Amount must be greater than zero"
		}
		expense.Amount = *req.Amount
	}
	if req.Currency != nil {
		if len(*req.Currency) != 3 {
			return "Currency must be a 3-letter code"
		}
		expense.Currency = strings.ToUpper(*req.Currency)
	}
	if req.Category != nil {
		category := domain.ExpenseCategory(*req.Category)
		if !category.IsValid() {
			return "Unknown category"
		}
		expense.Category = category
	}
	if req.ExpenseDate != nil {
		expense.ExpenseDate = *req.ExpenseDate
	}
	if req.Location != nil {
		expense.Location = *req.Location
	}
	if req.ReceiptImage != nil {
		expense.ReceiptImage = *req.ReceiptImage
	}
	if req.Notes != nil {
		expense.Notes = *req.Notes
	}
	return ""
}

// UpdateExpenseHandler applies a partial update to an owned expense
func UpdateExpenseHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		var req ExpenseUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		expense, err := store.ExpenseForOwner(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		if msg := applyExpenseUpdate(expense, &req); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		if err := db.Save(expense).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
			return
		}
		invalidateStatsCache(rdb, userID, expense.TravelPlanID)
		c.JSON(http.StatusOK, expense)
	}
}

// DeleteExpenseHandler deletes an owned expense
func DeleteExpenseHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		expense, err := store.ExpenseForOwner(db, c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		if err := db.Delete(expense).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,
			"expense_id": expense.ID,
		}).Info("Expense deleted")
		invalidateStatsCache(rdb, userID, expense.TravelPlanID)
		c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
	}
}

// Package store builds database queries scoped to the records the acting
// identity may see or modify. Ownership violations and nonexistence are
// indistinguishable to callers: both surface as gorm.ErrRecordNotFound,
// except the one documented travel-log visibility case (ErrLogNotVisible).
package store

import (
	"errors"

	"travel_tracker/internal/domain"

	"gorm.io/gorm"
)

// ErrLogNotVisible is returned when a travel log exists but is neither
// public nor owned by the viewer. Only the single-log read path
// distinguishes this case from not-found.
var ErrLogNotVisible = errors.New("travel log not visible")

// Pagination bounds
const (
	maxLimit = 100
)

// clampPage normalizes skip/limit against the allowed window
func clampPage(skip, limit, defaultLimit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit
}

// PlanForOwner returns the plan only when it exists and is owned by ownerID
func PlanForOwner(db *gorm.DB, planID, ownerID string) (*domain.TravelPlan, error) {
	var plan domain.TravelPlan
	err := db.Where("id = ? AND owner_id = ?", planID, ownerID).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// PlanFilter narrows a user's travel plan listing
type PlanFilter struct {
	OwnerID     string
	Status      domain.TravelStatus // optional
	Destination string              // optional, substring match
	Skip        int
	Limit       int
}

// ListPlans returns the owner's plans, newest first
func ListPlans(db *gorm.DB, f PlanFilter) ([]domain.TravelPlan, error) {
	skip, limit := clampPage(f.Skip, f.Limit, maxLimit)
	q := db.Where("owner_id = ?", f.OwnerID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Destination != "" {
		q = q.Where("destination LIKE ?", "%"+f.Destination+"%")
	}
	var plans []domain.TravelPlan
	err := q.Order("created_at DESC").Offset(skip).Limit(limit).Find(&plans).Error
	return plans, err
}

// ItineraryFilter narrows a plan-scoped itinerary listing.
// Plan ownership must be verified before applying it.
type ItineraryFilter struct {
	TravelPlanID string
	DayNumber    int                 // optional, 0 means no filter
	ActivityType domain.ActivityType // optional
	Skip         int
	Limit        int
}

// ListItineraries returns itineraries for a plan ordered by day then start time
func ListItineraries(db *gorm.DB, f ItineraryFilter) ([]domain.Itinerary, error) {
	skip, limit := clampPage(f.Skip, f.Limit, maxLimit)
	q := db.Where("travel_plan_id = ?", f.TravelPlanID)
	if f.DayNumber > 0 {
		q = q.Where("day_number = ?", f.DayNumber)
	}
	if f.ActivityType != "" {
		q = q.Where("activity_type = ?", f.ActivityType)
	}
	var items []domain.Itinerary
	err := q.Order("day_number ASC, start_time ASC").Offset(skip).Limit(limit).Find(&items).Error
	return items, err
}

// ItineraryForOwner returns the itinerary only when its parent plan is owned
// by ownerID, resolved through a join on travel_plans
func ItineraryForOwner(db *gorm.DB, itineraryID, ownerID string) (*domain.Itinerary, error) {
	var item domain.Itinerary
	err := db.Joins("JOIN travel_plans ON travel_plans.id = itineraries.travel_plan_id").
		Where("itineraries.id = ? AND travel_plans.owner_id = ?", itineraryID, ownerID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ExpenseFilter narrows a user-scoped expense listing
type ExpenseFilter struct {
	UserID       string
	TravelPlanID string                 // optional
	Category     domain.ExpenseCategory // optional
	Skip         int
	Limit        int
}

// ListExpenses returns the user's expenses ordered by expense date descending
func ListExpenses(db *gorm.DB, f ExpenseFilter) ([]domain.Expense, error) {
	skip, limit := clampPage(f.Skip, f.Limit, 10)
	q := db.Where("user_id = ?", f.UserID)
	if f.TravelPlanID != "" {
		q = q.Where("travel_plan_id = ?", f.TravelPlanID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	var expenses []domain.Expense
	err := q.Order("expense_date DESC").Offset(skip).Limit(limit).Find(&expenses).Error
	return expenses, err
}

// ExpenseForOwner returns the expense only when it belongs to userID
func ExpenseForOwner(db *gorm.DB, expenseID, userID string) (*domain.Expense, error) {
	var expense domain.Expense
	err := db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// LogFilter narrows a travel log listing. The base visibility predicate is
// public-or-own; OwnOnly replaces it with a strict author match so the
// author sees their records regardless of privacy.
type LogFilter struct {
	ViewerID     string
	OwnOnly      bool
	TravelPlanID string // optional
	IsPublic     string // optional visibility tier filter
	Skip         int
	Limit        int
}

// ListTravelLogs returns logs visible to the viewer, newest log date first
func ListTravelLogs(db *gorm.DB, f LogFilter) ([]domain.TravelLog, error) {
	skip, limit := clampPage(f.Skip, f.Limit, maxLimit)
	var q *gorm.DB
	if f.OwnOnly {
		q = db.Where("author_id = ?", f.ViewerID)
	} else {
		q = db.Where("is_public = ? OR author_id = ?", domain.VisibilityPublic, f.ViewerID)
	}
	if f.TravelPlanID != "" {
		q = q.Where("travel_plan_id = ?", f.TravelPlanID)
	}
	if f.IsPublic != "" {
		q = q.Where("is_public = ?", f.IsPublic)
	}
	var logs []domain.TravelLog
	err := q.Order("log_date DESC").Offset(skip).Limit(limit).Find(&logs).Error
	return logs, err
}

// LogForViewer returns a single log when it is public or owned by viewerID.
// When the record exists but is neither, ErrLogNotVisible is returned
// instead of not-found.
func LogForViewer(db *gorm.DB, logID, viewerID string) (*domain.TravelLog, error) {
	var log domain.TravelLog
	if err := db.Where("id = ?", logID).First(&log).Error; err != nil {
		return nil, err
	}
	if log.IsPublic != domain.VisibilityPublic && log.AuthorID != viewerID {
		return nil, ErrLogNotVisible
	}
	return &log, nil
}

// LogForAuthor returns a single log only when authored by authorID
func LogForAuthor(db *gorm.DB, logID, authorID string) (*domain.TravelLog, error) {
	var log domain.TravelLog
	err := db.Where("id = ? AND author_id = ?", logID, authorID).First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// LatestPublicLogs returns the most recently created public logs
func LatestPublicLogs(db *gorm.DB, limit int) ([]domain.TravelLog, error) {
	_, limit = clampPage(0, limit, 10)
	var logs []domain.TravelLog
	err := db.Where("is_public = ?", domain.VisibilityPublic).
		Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

package store

import (
	"travel_tracker/internal/domain"

	"gorm.io/gorm"
)

// CategoryTotal is one per-category aggregation row
type CategoryTotal struct {
	Category domain.ExpenseCategory `json:"category"`
	Amount   float64                `json:"amount"`
	Count    int64                  `json:"count"`
}

// ExpenseStatistics summarizes a user's spend within an optional plan scope.
// ByCategory carries no ordering guarantee and omits categories without
// expenses.
type ExpenseStatistics struct {
	TotalAmount float64         `json:"total_amount"`
	ByCategory  []CategoryTotal `json:"by_category"`
}

// AggregateExpenses groups the user's expenses by category and computes
// per-category sums and counts plus a grand total. travelPlanID narrows the
// scope when non-empty. The grand total is read in a second query over the
// same predicate rather than derived from the per-category sums, so the two
// reads may reflect slightly different snapshots under concurrent writes.
func AggregateExpenses(db *gorm.DB, userID, travelPlanID string) (*ExpenseStatistics, error) {
	scoped := func(q *gorm.DB) *gorm.DB {
		q = q.Where("user_id = ?", userID)
		if travelPlanID != "" {
			q = q.Where("travel_plan_id = ?", travelPlanID)
		}
		return q
	}

	byCategory := []CategoryTotal{}
	err := scoped(db.Model(&domain.Expense{})).
		Select("category, SUM(amount) AS amount, COUNT(*) AS count").
		Group("category").
		Scan(&byCategory).Error
	if err != nil {
		return nil, err
	}

	var total float64
	err = scoped(db.Model(&domain.Expense{})).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return nil, err
	}

	return &ExpenseStatistics{TotalAmount: total, ByCategory: byCategory}, nil
}

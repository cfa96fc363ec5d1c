package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpenseCategory classifies one expense record
type ExpenseCategory string

// Expense categories
const (
	CategoryTransportation ExpenseCategory = "transportation"
	CategoryAccommodation  ExpenseCategory = "accommodation"
	CategoryFood           ExpenseCategory = "food"
	CategorySightseeing    ExpenseCategory = "sightseeing"
	CategoryShopping       ExpenseCategory = "shopping"
	CategoryEntertainment  ExpenseCategory = "entertainment"
	CategoryInsurance      ExpenseCategory = "insurance"
	CategoryVisa           ExpenseCategory = "visa"
	CategoryOther          ExpenseCategory = "other"
)

// IsValid reports whether c is a known expense category
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case CategoryTransportation, CategoryAccommodation, CategoryFood,
		CategorySightseeing, CategoryShopping, CategoryEntertainment,
		CategoryInsurance, CategoryVisa, CategoryOther:
		return true
	}
	return false
}

// Expense Model: one financial record owned by a user, optionally tied to a plan.
// TravelPlanID is not constrained: it may dangle after the plan is deleted.
type Expense struct {
	ID           string          `gorm:"type:varchar(36);primaryKey" json:"id"` // UUID primary key
	Title        string          `gorm:"type:varchar(200);not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	Amount       float64         `gorm:"type:decimal(10,2);not null" json:"amount"` // Strictly positive
	Currency     string          `gorm:"type:varchar(3);default:CNY" json:"currency"`
	Category     ExpenseCategory `gorm:"type:varchar(20);not null" json:"category"`
	ExpenseDate  time.Time       `gorm:"not null;index" json:"expense_date"`
	Location     string          `gorm:"type:varchar(200)" json:"location"`
	ReceiptImage string          `gorm:"type:varchar(200)" json:"receipt_image"`
	Notes        string          `gorm:"type:text" json:"notes"`
	UserID       string          `gorm:"type:varchar(36);index;not null" json:"user_id"`
	TravelPlanID *string         `gorm:"type:varchar(36);index" json:"travel_plan_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key before insert
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Currency == "" {
		e.Currency = "CNY"
	}
	return nil
}

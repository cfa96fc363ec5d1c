package api

import (
	"net/http"
	"testing"
	"time"

	"travel_tracker/internal/domain"
	"travel_tracker/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expensePayload builds a minimal valid expense body
func expensePayload(amount float64, category string, planID string) gin.H {
	payload := gin.H{
		"title":        "Lunch",
		"amount":       amount,
		"category":     category,
		"expense_date": time.Now().Format(time.RFC3339),
	}
	if planID != "" {
		payload["travel_plan_id"] = planID
	}
	return payload
}

func TestCreateExpenseAndStatistics(t *testing.T) {
	r, _ := setupTest(t)
	token := registerAndLogin(t, r, "alice")
	plan := createPlan(t, r, token, "Trip")

	w := doJSON(t, r, http.MethodPost, "/expenses", token, expensePayload(150.50, "food", plan.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	var expense domain.Expense
	decode(t, w, &expense)
	assert.Equal(t, 150.50, expense.Amount)
	assert.Equal(t, domain.CategoryFood, expense.Category)
	assert.Equal(t, "CNY", expense.Currency, "currency defaults to CNY")

	w = doJSON(t, r, http.MethodGet, "/expenses/statistics?travel_plan_id="+plan.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats store.ExpenseStatistics
	decode(t, w, &stats)
	assert.InDelta(t, 150.50, stats.TotalAmount, 0.001)
	require.Len(t, stats.ByCategory, 1)
	assert.Equal(t, domain.CategoryFood, stats.ByCategory[0].Category)
	assert.InDelta(t, 150.50, stats.ByCategory[0].Amount, 0.001)
	assert.Equal(t, int64(1), stats.ByCategory[0].Count)
}

func TestCreateExpenseAgainstForeignPlan(t *testing.T) {
	r, db := setupTest(t)
	token := registerAndLogin(t, r, "alice")
	otherToken := registerAndLogin(t, r, "bob")
	plan := createPlan(t, r, token, "Alice trip")

	// Bob cannot attach an expense to Alice's plan; nothing is persisted
	w := doJSON(t, r, http.MethodPost, "/expenses", otherToken, expensePayload(10, "food", plan.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, db.Model(&domain.Expense{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateExpenseValidation(t *testing.T) {
	r, _ := setupTest(t)
	token := registerAndLogin(t, r, "alice")

	cases := []gin.H{
		expensePayload(0, "food", ""),      // zero amount rejected
		expensePayload(-5, "food", ""),     // negative amount rejected
		expensePayload(10, "gambling", ""), // unknown category
		{"title": " ", "amount": 10, "category": "food", "expense_date": time.Now().Format(time.RFC3339)},
	}
	for _, payload := range cases {
		w := doJSON(t, r, http.MethodPost, "/expenses", token, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %v", payload)
	}

	// Future-dated expenses are accepted
	future := expensePayload(10, "food", "")
	future["expense_date"] = time.Now().AddDate(1, 0, 0).Format(time.RFC3339)
	w := doJSON(t, r, http.MethodPost, "/expenses", token, future)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestListExpensesFilters(t *testing.T) {
	r, _ := setupTest(t)
	token := registerAndLogin(t, r, "alice")
	plan := createPlan(t, r, token, "Trip")

	for _, p := range []gin.H{
		expensePayload(10, "food", plan.ID),
		expensePayload(20, "transportation", plan.ID),
		expensePayload(30, "food", ""),
	} {
		w := doJSON(t, r, http.MethodPost, "/expenses", token, p)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var expenses []domain.Expense
	w := doJSON(t, r, http.MethodGet, "/expenses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &expenses)
	assert.Len(t, expenses, 3)

	w = doJSON(t, r, http.MethodGet, "/expenses?travel_plan_id="+plan.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &expenses)
	assert.Len(t, expenses, 2)

	w = doJSON(t, r, http.MethodGet, "/expenses?travel_plan_id="+plan.ID+"&category=food", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &expenses)
	require.Len(t, expenses, 1)
	assert.Equal(t, 10.0, expenses[0].Amount)
}

func TestExpenseOwnershipOnSingleRecords(t *testing.T) {
	r, _ := setupTest(t)
	token := registerAndLogin(t, r, "alice")
	otherToken := registerAndLogin(t, r, "bob")

	w := doJSON(t, r, http.MethodPost, "/expenses", token, expensePayload(10, "food", ""))
	require.Equal(t, http.StatusCreated, w.Code)
	var expense domain.Expense
	decode(t, w, &expense)

	w = doJSON(t, r, http.MethodGet, "/expenses/"+expense.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/expenses/"+expense.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodPut, "/expenses/"+expense.ID, otherToken, gin.H{"notes": "mine now"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/expenses/"+expense.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateExpensePartial(t *testing.T) {
	r, db := setupTest(t)
	token := registerAndLogin(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/expenses", token, expensePayload(10, "food", ""))
	require.Equal(t, http.StatusCreated, w.Code)
	var expense domain.Expense
	decode(t, w, &expense)

	var before domain.Expense
	require.NoError(t, db.Where("id = ?", expense.ID).First(&before).Error)

	w = doJSON(t, r, http.MethodPut, "/expenses/"+expense.ID, token, gin.H{"description": "noodles"})
	require.Equal(t, http.StatusOK, w.Code)

	var after domain.Expense
	require.NoError(t, db.Where("id = ?", expense.ID).First(&after).Error)
	assert.Equal(t, "noodles", after.Description)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Amount, after.Amount)
	assert.Equal(t, before.Category, after.Category)
	assert.Equal(t, before.Currency, after.Currency)

	// Invalid partial values are rejected
	w = doJSON(t, r, http.MethodPut, "/expenses/"+expense.ID, token, gin.H{"amount": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanScopedExpenseRoutes(t *testing.T) {
	r, _ := setupTest(t)
	token := registerAndLogin(t, r, "alice")
	otherToken := registerAndLogin(t, r, "bob")
	plan := createPlan(t, r, token, "Trip")

	// The nested create ignores any plan reference in the payload
	w := doJSON(t, r, http.MethodPost, "/travel-plans/"+plan.ID+"/expenses", token, expensePayload(150.50, "food", ""))
	require.Equal(t, http.StatusCreated, w.Code)
	var expense domain.Expense
	decode(t, w, &expense)
	require.NotNil(t, expense.TravelPlanID)
	assert.Equal(t, plan.ID, *expense.TravelPlanID)

	w = doJSON(t, r, http.MethodGet, "/travel-plans/"+plan.ID+"/expenses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var expenses []domain.Expense
	decode(t, w, &expenses)
	assert.Len(t, expenses, 1)

	w = doJSON(t, r, http.MethodGet, "/travel-plans/"+plan.ID+"/expenses/statistics", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats store.ExpenseStatistics
	decode(t, w, &stats)
	assert.InDelta(t, 150.50, stats.TotalAmount, 0.001)

	// Every nested route checks plan ownership first
	for _, path := range []string{
		"/travel-plans/" + plan.ID + "/expenses",
		"/travel-plans/" + plan.ID + "/expenses/statistics",
	} {
		w = doJSON(t, r, http.MethodGet, path, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "path %s", path)
	}
}

func TestStatisticsEmpty(t *testing.T) {
	r, _ := setupTest(t)
	token := registerAndLogin(t, r, "alice")

	w := doJSON(t, r, http.MethodGet, "/expenses/statistics", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats store.ExpenseStatistics
	decode(t, w, &stats)
	assert.Zero(t, stats.TotalAmount)
	assert.Empty(t, stats.ByCategory)
	assert.Contains(t, w.Body.String(), `"by_category":[]`, "empty aggregation serializes as an empty list")
}

package api

import (
	"net/http"
	"testing"

	"travel_tracker/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// itineraryPayload builds a minimal valid itinerary body
func itineraryPayload(planID string, day int, activity string) gin.H {
	return gin.H{
		"day_number":     day,
		"activity_type":  activity,
		"title":          "Great Wall",
		"travel_plan_id": planID,
	}
}

func TestCreateItinerary(t *testing.T) {
	r, _ := setupTest(t)
	token := registerAndLogin(t, r, "alice")
	plan := createPlan(t, r, token, "Trip")

	w := doJSON(t, r, http.MethodPost, "/itineraries", token, itineraryPayload(plan.ID, 1, "sightseeing"))
	require.Equal(t, http.StatusCreated, w.Code)
	var item domain.Itinerary
	decode(t, w, &item)
	assert.Equal(t, 1, item.DayNumber)
	assert.Equal(t, domain.ActivitySightseeing, item.ActivityType)
	assert.Equal(t, plan.ID, item.TravelPlanID)
}

func TestCreateItineraryValidation(t *testing.T) {
	r, _ := setupTest(t)
	token := registerAndLogin(t, r, "alice")
	plan := createPlan(t, r, token, "Trip")

	cases := []gin.H{
		itineraryPayload(plan.ID, 0, "sightseeing"),  // day number must be positive
		itineraryPayload(plan.ID, 1, "spelunking"),   // unknown activity
		{"day_number": 1, "activity_type": "dining"}, // missing plan and title
	}
	for _, payload := range cases {
		w := doJSON(t, r, http.MethodPost, "/itineraries", token, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %v", payload)
	}

	// Inverted time window rejected
	bad := itineraryPayload(plan.ID, 1, "dining")
	bad["start_time"] = "2026-09-08T18:00:00Z"
	bad["end_time"] = "2026-09-08T12:00:00Z"
	w := doJSON(t, r, http.MethodPost, "/itineraries", token, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateItineraryAgainstForeignPlan(t *testing.T) {
	r, db := setupTest(t)
	token := registerAndLogin(t, r, "alice")
	otherToken := registerAndLogin(t, r, "bob")
	plan := createPlan(t, r, token, "Alice trip")

	w := doJSON(t, r, http.MethodPost, "/itineraries", otherToken, itineraryPayload(plan.ID, 1, "dining"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, db.Model(&domain.Itinerary{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListItineraries(t *testing.T) {
	r, _ := setupTest(t)
	token := registerAndLogin(t, r, "alice")
	plan := createPlan(t, r, token, "Trip")

	for _, p := range []gin.H{
		itineraryPayload(plan.ID, 2, "dining"),
		itineraryPayload(plan.ID, 1, "sightseeing"),
		itineraryPayload(plan.ID, 1, "dining"),
	} {
		w := doJSON(t, r, http.MethodPost, "/itineraries", token, p)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/itineraries?travel_plan_id="+plan.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []domain.Itinerary
	decode(t, w, &items)
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].DayNumber, items[i].DayNumber, "expected day_number ascending")
	}

	w = doJSON(t, r, http.MethodGet, "/itineraries?travel_plan_id="+plan.ID+"&day_number=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &items)
	assert.Len(t, items, 2)

	w = doJSON(t, r, http.MethodGet, "/itineraries?travel_plan_id="+plan.ID+"&activity_type=dining", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &items)
	assert.Len(t, items, 2)

	// The listing requires a plan reference
	w = doJSON(t, r, http.MethodGet, "/itineraries", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItineraryOwnershipThroughPlan(t *testing.T) {
	r, _ := setupTest(t)
	token := registerAndLogin(t, r, "alice")
	otherToken := registerAndLogin(t, r, "bob")
	plan := createPlan(t, r, token, "Trip")

	w := doJSON(t, r, http.MethodPost, "/itineraries", token, itineraryPayload(plan.ID, 1, "dining"))
	require.Equal(t, http.StatusCreated, w.Code)
	var item domain.Itinerary
	decode(t, w, &item)

	w = doJSON(t, r, http.MethodGet, "/itineraries/"+item.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodPut, "/itineraries/"+item.ID, otherToken, gin.H{"title": "defaced"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/itineraries/"+item.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The list endpoint hides the foreign plan entirely
	w = doJSON(t, r, http.MethodGet, "/itineraries?travel_plan_id="+plan.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateItineraryPartial(t *testing.T) {
	r, db := setupTest(t)
	token := registerAndLogin(t, r, "alice")
	plan := createPlan(t, r, token, "Trip")

	w := doJSON(t, r, http.MethodPost, "/itineraries", token, itineraryPayload(plan.ID, 1, "dining"))
	require.Equal(t, http.StatusCreated, w.Code)
	var item domain.Itinerary
	decode(t, w, &item)

	w = doJSON(t, r, http.MethodPut, "/itineraries/"+item.ID, token, gin.H{"location": "Badaling"})
	require.Equal(t, http.StatusOK, w.Code)

	var after domain.Itinerary
	require.NoError(t, db.Where("id = ?", item.ID).First(&after).Error)
	assert.Equal(t, "Badaling", after.Location)
	assert.Equal(t, item.Title, after.Title)
	assert.Equal(t, item.DayNumber, after.DayNumber)
	assert.Equal(t, item.ActivityType, after.ActivityType)
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"travel_tracker/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTest returns a fully wired router over a fresh in-memory database.
// Redis is nil so caching is disabled.
func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.TravelPlan{},
		&domain.Itinerary{},
		&domain.Expense{},
		&domain.TravelLog{},
	))
	return NewRouter(db, nil, testJWTSecret), db
}

// doJSON performs a request with an optional bearer token and JSON body
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorded JSON response body into dest
func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

// registerAndLogin creates a user and returns a usable bearer token
func registerAndLogin(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": username,
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/auth/login-json", "", gin.H{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())
	var resp TokenResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// createPlan creates a travel plan and returns its decoded response
func createPlan(t *testing.T, r *gin.Engine, token, title string) domain.TravelPlan {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/travel-plans", token, gin.H{
		"title":       title,
		"destination": "Beijing",
		"start_date":  "2026-09-07",
		"end_date":    "2026-09-14",
		"budget":      5000.00,
	})
	require.Equal(t, http.StatusCreated, w.Code, "create plan failed: %s", w.Body.String())
	var plan domain.TravelPlan
	decode(t, w, &plan)
	return plan
}

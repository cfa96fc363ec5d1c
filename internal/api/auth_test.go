package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username":  "alice",
		"email":     "alice@example.com",
		"password":  "secret123",
		"full_name": "Alice Zhang",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]any
	decode(t, w, &created)
	assert.Equal(t, "alice", created["username"])
	assert.NotEmpty(t, created["id"])
	assert.NotContains(t, w.Body.String(), "secret123", "password must never appear in responses")

	w = doJSON(t, r, http.MethodPost, "/auth/login-json", "", gin.H{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp TokenResponse
	decode(t, w, &resp)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestRegisterConflicts(t *testing.T) {
	r, _ := setupTest(t)
	registerAndLogin(t, r, "alice")

	// Same username
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice",
		"email":    "other@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Same email, different username
	w = doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setupTest(t)

	cases := []gin.H{
		{"username": "al", "email": "a@example.com", "password": "secret123"}, // username too short
		{"username": "alice", "email": "not-an-email", "password": "secret123"},
		{"username": "alice", "email": "a@example.com", "password": "short"}, // password too short
	}
	for _, payload := range cases {
		w := doJSON(t, r, http.MethodPost, "/auth/register", "", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %v", payload)
	}
}

func TestLoginForm(t *testing.T) {
	r, _ := setupTest(t)
	registerAndLogin(t, r, "alice")

	form := url.Values{"username": {"alice"}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var resp TokenResponse
	decode(t, w, &resp)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := setupTest(t)
	registerAndLogin(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/auth/login-json", "", gin.H{
		"username": "alice",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/login-json", "", gin.H{
		"username": "nobody",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/users/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDisabledAccountRejected(t *testing.T) {
	r, db := setupTest(t)
	token := registerAndLogin(t, r, "alice")

	require.NoError(t, db.Exec("UPDATE users SET is_active = false WHERE username = ?", "alice").Error)

	w := doJSON(t, r, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

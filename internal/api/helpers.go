package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// currentUserID extracts the acting user's ID placed in the context by the
// JWT middleware
func currentUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// requireUserID aborts with 401 when no authenticated user is present
func requireUserID(c *gin.Context) (string, bool) {
	id, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return id, ok
}

// pageParams reads skip/limit query parameters. Zero values are returned for
// absent or malformed input; the store applies defaults and clamping.
func pageParams(c *gin.Context) (skip, limit int) {
	if s := c.Query("skip"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			skip = v
		}
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	return skip, limit
}

// isBlank reports whether s is empty after trimming whitespace
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

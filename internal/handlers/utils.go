package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// userIDHeader carries the authenticated user's ID, set by the auth proxy in
// front of this service.
const userIDHeader = "X-User-ID"

// currentUserID extracts the caller's user ID, writing a 401 response and
// returning false when it is missing.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetHeader(userIDHeader)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return "", false
	}
	return userID, true
}

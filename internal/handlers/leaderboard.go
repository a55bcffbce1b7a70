package handlers

import (
	"net/http"
	"strconv"

	"tradechallenge/internal/services"

	"github.com/gin-gonic/gin"
)

// LeaderboardHandler handles leaderboard HTTP requests
type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// GetLeaderboard handles GET /api/v1/leaderboard requests
// @Summary Get Leaderboard
// @Description Get challenges ranked by profit percentage with trade counts
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Number of entries to return (default: 50)" default(50) minimum(1) maximum(100)
// @Success 200 {object} map[string]interface{} "Ranked entries"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /leaderboard [get]
func (lh *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := lh.leaderboardService.GetLeaderboard(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"count":       len(entries),
	})
}

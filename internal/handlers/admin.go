package handlers

import (
	"net/http"

	"tradechallenge/internal/models"
	"tradechallenge/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles operator HTTP requests: status transitions and day
// rollover. These routes sit behind the operator auth proxy.
type AdminHandler struct {
	challengeService *services.ChallengeService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(challengeService *services.ChallengeService) *AdminHandler {
	return &AdminHandler{
		challengeService: challengeService,
	}
}

// StatusUpdateRequest is the body of an admin status transition.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateChallengeStatus handles PUT /api/v1/admin/challenges/:id/status requests
// @Summary Update Challenge Status
// @Description Apply an operator status transition to a challenge
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param request body StatusUpdateRequest true "New status"
// @Success 200 {object} map[string]interface{} "Updated challenge"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 409 {object} map[string]interface{} "Transition not allowed"
// @Router /admin/challenges/{id}/status [put]
func (ah *AdminHandler) UpdateChallengeStatus(c *gin.Context) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.ChallengeStatus(req.Status)
	switch status {
	case models.ChallengeStatusPending, models.ChallengeStatusActive,
		models.ChallengeStatusPassed, models.ChallengeStatusFailed,
		models.ChallengeStatusFunded:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status: " + req.Status})
		return
	}

	challenge, err := ah.challengeService.UpdateStatus(c.Param("id"), status)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenge": challenge})
}

// RolloverDay handles POST /api/v1/admin/challenges/:id/rollover requests
// @Summary Roll Over Trading Day
// @Description Reset a challenge's daily P&L and increment its trading-day counter
// @Tags admin
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} map[string]interface{} "Rollover applied"
// @Failure 404 {object} map[string]interface{} "Challenge not found"
// @Router /admin/challenges/{id}/rollover [post]
func (ah *AdminHandler) RolloverDay(c *gin.Context) {
	challengeID := c.Param("id")

	if err := ah.challengeService.RolloverDay(challengeID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"challenge_id": challengeID,
		"rolled_over":  true,
	})
}

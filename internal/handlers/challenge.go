package handlers

import (
	"errors"
	"net/http"

	"tradechallenge/internal/models"
	"tradechallenge/internal/services"

	"github.com/gin-gonic/gin"
)

// ChallengeHandler handles challenge lifecycle HTTP requests
type ChallengeHandler struct {
	challengeService *services.ChallengeService
	tradeService     *services.TradeService
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challengeService *services.ChallengeService, tradeService *services.TradeService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		tradeService:     tradeService,
	}
}

// PurchaseRequest is the body of a plan purchase.
type PurchaseRequest struct {
	Plan          string `json:"plan" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

// GetPlans handles GET /api/v1/plans requests
// @Summary Get Challenge Plans
// @Description Get the catalog of purchasable challenge plans with their rules
// @Tags challenges
// @Produce json
// @Success 200 {object} map[string]interface{} "List of plans"
// @Router /plans [get]
func (ch *ChallengeHandler) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"plans": models.PlanCatalog(),
	})
}

// PurchasePlan handles POST /api/v1/challenges requests
// @Summary Purchase a Challenge Plan
// @Description Record a completed payment and start a new active challenge
// @Tags challenges
// @Accept json
// @Produce json
// @Param request body PurchaseRequest true "Plan to purchase"
// @Success 201 {object} map[string]interface{} "Created challenge"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /challenges [post]
func (ch *ChallengeHandler) PurchasePlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "card"
	}

	challenge, err := ch.challengeService.PurchasePlan(userID, models.ChallengePlan(req.Plan), paymentMethod)
	if err != nil {
		if _, ok := models.PlanSpecFor(models.ChallengePlan(req.Plan)); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"challenge": challenge})
}

// GetActiveChallenge handles GET /api/v1/challenges/active requests
// @Summary Get Active Challenge
// @Description Get the caller's active challenge with evaluated rule state
// @Tags challenges
// @Produce json
// @Success 200 {object} services.ChallengeState "Active challenge with rules"
// @Failure 404 {object} map[string]interface{} "No active challenge"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /challenges/active [get]
func (ch *ChallengeHandler) GetActiveChallenge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	state, err := ch.challengeService.GetActiveChallenge(userID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveChallenge) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active challenge"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

// GetChallenges handles GET /api/v1/challenges requests
// @Summary Get User Challenges
// @Description Get all of the caller's challenges, newest first
// @Tags challenges
// @Produce json
// @Success 200 {object} map[string]interface{} "List of challenges"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /challenges [get]
func (ch *ChallengeHandler) GetChallenges(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	challenges, err := ch.challengeService.GetUserChallenges(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"challenges": challenges,
		"count":      len(challenges),
	})
}

// GetChallengeState handles GET /api/v1/challenges/:id requests
// @Summary Get Challenge State
// @Description Get a challenge by ID with evaluated rule state
// @Tags challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} services.ChallengeState "Challenge with rules"
// @Failure 404 {object} map[string]interface{} "Challenge not found"
// @Router /challenges/{id} [get]
func (ch *ChallengeHandler) GetChallengeState(c *gin.Context) {
	state, err := ch.challengeService.GetChallengeState(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		return
	}

	c.JSON(http.StatusOK, state)
}

// GetPayments handles GET /api/v1/payments requests
// @Summary Get User Payments
// @Description Get all of the caller's plan payments, newest first
// @Tags challenges
// @Produce json
// @Success 200 {object} map[string]interface{} "List of payments"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /payments [get]
func (ch *ChallengeHandler) GetPayments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	payments, err := ch.challengeService.GetUserPayments(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"count":    len(payments),
	})
}

// GetUnrealizedPnL handles GET /api/v1/challenges/:id/unrealized-pnl requests
// @Summary Get Unrealized P&L
// @Description Compute the paper P&L over a challenge's open trades at current quotes
// @Tags challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} map[string]interface{} "Unrealized P&L"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /challenges/{id}/unrealized-pnl [get]
func (ch *ChallengeHandler) GetUnrealizedPnL(c *gin.Context) {
	challengeID := c.Param("id")

	pnl, err := ch.tradeService.GetUnrealizedPnL(challengeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"challenge_id":   challengeID,
		"unrealized_pnl": pnl,
	})
}

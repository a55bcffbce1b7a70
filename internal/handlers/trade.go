package handlers

import (
	"errors"
	"net/http"
	"strconv"

	trading "tradechallenge/internal/engines/trading"
	"tradechallenge/internal/models"
	"tradechallenge/internal/services"

	"github.com/gin-gonic/gin"
)

// TradeHandler handles trade-related HTTP requests
type TradeHandler struct {
	tradeService *services.TradeService
}

// NewTradeHandler creates a new trade handler
func NewTradeHandler(tradeService *services.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

// OpenTradeRequest is the body of a trade open.
type OpenTradeRequest struct {
	ChallengeID string  `json:"challenge_id" binding:"required"`
	Symbol      string  `json:"symbol" binding:"required"`
	Direction   string  `json:"direction" binding:"required"`
	EntryPrice  float64 `json:"entry_price" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required"`
}

// CloseTradeRequest is the body of a trade close. ExitPrice omitted means
// close at the current market quote.
type CloseTradeRequest struct {
	ExitPrice *float64 `json:"exit_price"`
}

// OpenTrade handles POST /api/v1/trades requests
// @Summary Open a Trade
// @Description Open a position against the caller's challenge
// @Tags trades
// @Accept json
// @Produce json
// @Param request body OpenTradeRequest true "Trade to open"
// @Success 201 {object} map[string]interface{} "Opened trade"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 409 {object} map[string]interface{} "Challenge not active"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /trades [post]
func (th *TradeHandler) OpenTrade(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req OpenTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trade, err := th.tradeService.OpenTrade(userID, req.ChallengeID, req.Symbol,
		models.TradeDirection(req.Direction), req.EntryPrice, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, trading.ErrChallengeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		case errors.Is(err, trading.ErrChallengeNotActive):
			c.JSON(http.StatusConflict, gin.H{"error": "challenge is not active"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trade": trade})
}

// CloseTrade handles POST /api/v1/trades/:id/close requests
// @Summary Close a Trade
// @Description Close an open trade at an explicit exit price, or at market when none is given
// @Tags trades
// @Accept json
// @Produce json
// @Param id path string true "Trade ID"
// @Param request body CloseTradeRequest false "Exit price"
// @Success 200 {object} map[string]interface{} "Closed trade"
// @Failure 404 {object} map[string]interface{} "Trade not found"
// @Failure 409 {object} map[string]interface{} "Trade already closed"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /trades/{id}/close [post]
func (th *TradeHandler) CloseTrade(c *gin.Context) {
	tradeID := c.Param("id")

	var req CloseTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var trade *models.Trade
	var err error
	if req.ExitPrice != nil {
		trade, err = th.tradeService.CloseTrade(tradeID, *req.ExitPrice)
	} else {
		trade, err = th.tradeService.CloseTradeAtMarket(tradeID)
	}

	if err != nil {
		switch {
		case errors.Is(err, trading.ErrTradeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "trade not found"})
		case errors.Is(err, trading.ErrTradeAlreadyClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "trade is already closed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"trade": trade})
}

// GetChallengeTrades handles GET /api/v1/challenges/:id/trades requests
// @Summary Get Challenge Trades
// @Description Get trades of a challenge, newest first
// @Tags trades
// @Produce json
// @Param id path string true "Challenge ID"
// @Param limit query int false "Number of trades to return (default: 50)" default(50) minimum(1) maximum(1000)
// @Success 200 {object} map[string]interface{} "List of trades"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /challenges/{id}/trades [get]
func (th *TradeHandler) GetChallengeTrades(c *gin.Context) {
	challengeID := c.Param("id")

	limit := parseLimit(c.DefaultQuery("limit", "50"))

	trades, err := th.tradeService.GetChallengeTrades(challengeID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trades": trades,
		"count":  len(trades),
	})
}

// GetTrades handles GET /api/v1/trades requests
// @Summary Get User Trades
// @Description Get all of the caller's trades across challenges
// @Tags trades
// @Produce json
// @Param limit query int false "Number of trades to return (default: 50)" default(50) minimum(1) maximum(1000)
// @Success 200 {object} map[string]interface{} "List of trades"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /trades [get]
func (th *TradeHandler) GetTrades(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := parseLimit(c.DefaultQuery("limit", "50"))

	trades, err := th.tradeService.GetUserTrades(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trades": trades,
		"count":  len(trades),
	})
}

func parseLimit(limitStr string) int {
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 1000 {
		return 50
	}
	return limit
}

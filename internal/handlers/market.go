package handlers

import (
	"net/http"
	"strings"

	"tradechallenge/internal/services"

	"github.com/gin-gonic/gin"
)

// MarketHandler handles quote lookup HTTP requests
type MarketHandler struct {
	marketService services.MarketDataServiceInterface
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(marketService services.MarketDataServiceInterface) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// GetQuote handles GET /api/v1/market/quotes/:symbol requests
// @Summary Get Quote
// @Description Get the current quote for a symbol
// @Tags market
// @Produce json
// @Param symbol path string true "Instrument symbol"
// @Success 200 {object} models.Quote "Current quote"
// @Failure 404 {object} map[string]interface{} "Unsupported symbol"
// @Router /market/quotes/{symbol} [get]
func (mh *MarketHandler) GetQuote(c *gin.Context) {
	symbol := c.Param("symbol")

	quote, err := mh.marketService.GetQuote(symbol)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quote)
}

// GetQuotes handles GET /api/v1/market/quotes requests
// @Summary Get Quotes
// @Description Get current quotes for a comma-separated list of symbols
// @Tags market
// @Produce json
// @Param symbols query []string true "Instrument symbols" collectionFormat(csv)
// @Success 200 {object} map[string]interface{} "Current quotes"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /market/quotes [get]
func (mh *MarketHandler) GetQuotes(c *gin.Context) {
	symbols := c.QueryArray("symbols")
	if len(symbols) == 1 {
		symbols = splitSymbols(symbols[0])
	}
	if len(symbols) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbols parameter is required"})
		return
	}

	quotes := mh.marketService.GetQuotes(symbols)
	c.JSON(http.StatusOK, gin.H{
		"quotes": quotes,
		"count":  len(quotes),
	})
}

// GetSupportedSymbols handles GET /api/v1/market/symbols requests
// @Summary Get Supported Symbols
// @Description Get the tradeable instruments grouped by category
// @Tags market
// @Produce json
// @Success 200 {object} map[string]interface{} "Instrument categories"
// @Router /market/symbols [get]
func (mh *MarketHandler) GetSupportedSymbols(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": mh.marketService.SupportedSymbols(),
	})
}

func splitSymbols(raw string) []string {
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

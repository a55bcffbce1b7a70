package services

import (
	"tradechallenge/internal/currency"
	dao "tradechallenge/internal/dao/challenge"
	trading "tradechallenge/internal/engines/trading"
	"tradechallenge/internal/models"
)

// TradeService handles trade orchestration and P&L reads
type TradeService struct {
	engine        trading.TradeEngineInterface
	tradeDAO      dao.TradeDAOInterface
	marketService MarketDataServiceInterface
	converter     *currency.Converter
}

// NewTradeService creates a new trade service
func NewTradeService(engine trading.TradeEngineInterface, tradeDAO dao.TradeDAOInterface, marketService MarketDataServiceInterface, converter *currency.Converter) *TradeService {
	return &TradeService{
		engine:        engine,
		tradeDAO:      tradeDAO,
		marketService: marketService,
		converter:     converter,
	}
}

// OpenTrade opens a position against the user's challenge
func (ts *TradeService) OpenTrade(userID, challengeID, symbol string, direction models.TradeDirection, entryPrice, quantity float64) (*models.Trade, error) {
	return ts.engine.OpenTrade(userID, challengeID, symbol, direction, entryPrice, quantity)
}

// CloseTrade closes a trade at an explicit exit price
func (ts *TradeService) CloseTrade(tradeID string, exitPrice float64) (*models.Trade, error) {
	return ts.engine.CloseTrade(tradeID, exitPrice)
}

// CloseTradeAtMarket closes a trade at the current quote for its symbol,
// falling back to the entry price when no quote is available.
func (ts *TradeService) CloseTradeAtMarket(tradeID string) (*models.Trade, error) {
	trade, err := ts.tradeDAO.GetByID(tradeID)
	if err != nil {
		return nil, trading.ErrTradeNotFound
	}

	exitPrice := trade.EntryPrice
	if quote, err := ts.marketService.GetQuote(trade.Symbol); err == nil && quote.Price > 0 {
		exitPrice = quote.Price
	}

	return ts.engine.CloseTrade(tradeID, exitPrice)
}

// GetChallengeTrades returns the trades of a challenge, newest first
func (ts *TradeService) GetChallengeTrades(challengeID string, limit int) ([]models.Trade, error) {
	return ts.tradeDAO.GetChallengeTrades(challengeID, limit)
}

// GetUserTrades returns all trades of a user across challenges
func (ts *TradeService) GetUserTrades(userID string, limit int) ([]models.Trade, error) {
	return ts.tradeDAO.GetUserTrades(userID, limit)
}

// GetUnrealizedPnL computes the reference-currency paper P&L over the open
// trades of a challenge using current quotes. Pure read, recomputed per call.
func (ts *TradeService) GetUnrealizedPnL(challengeID string) (float64, error) {
	openTrades, err := ts.tradeDAO.GetOpenTrades(challengeID)
	if err != nil {
		return 0, err
	}

	if len(openTrades) == 0 {
		return 0, nil
	}

	symbols := make([]string, 0, len(openTrades))
	seen := make(map[string]bool, len(openTrades))
	for _, trade := range openTrades {
		if !seen[trade.Symbol] {
			seen[trade.Symbol] = true
			symbols = append(symbols, trade.Symbol)
		}
	}

	prices := ts.marketService.GetCurrentPrices(symbols)
	return trading.UnrealizedPnL(openTrades, prices, ts.converter), nil
}

package challenge

import (
	"fmt"
	"time"

	"tradechallenge/internal/models"

	"gorm.io/gorm"
)

// TradeDAO handles database operations for trades
type TradeDAO struct {
	db *gorm.DB
}

// TradeDAOInterface defines the contract for trade data access
type TradeDAOInterface interface {
	Create(trade *models.Trade) error
	GetByID(tradeID string) (*models.Trade, error)
	GetChallengeTrades(challengeID string, limit int) ([]models.Trade, error)
	GetOpenTrades(challengeID string) ([]models.Trade, error)
	GetUserTrades(userID string, limit int) ([]models.Trade, error)
	CloseWithTx(tx *gorm.DB, tradeID string, exitPrice, pnl float64, closedAt time.Time) (bool, error)
}

// NewTradeDAO creates a new trade DAO instance
func NewTradeDAO(db *gorm.DB) TradeDAOInterface {
	return &TradeDAO{
		db: db,
	}
}

// Create creates a new trade record
func (dao *TradeDAO) Create(trade *models.Trade) error {
	if err := dao.db.Create(trade).Error; err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	return nil
}

// GetByID retrieves a trade by ID
func (dao *TradeDAO) GetByID(tradeID string) (*models.Trade, error) {
	var trade models.Trade
	if err := dao.db.First(&trade, "id = ?", tradeID).Error; err != nil {
		return nil, err
	}
	return &trade, nil
}

// GetChallengeTrades gets all trades belonging to a challenge, newest first
func (dao *TradeDAO) GetChallengeTrades(challengeID string, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	query := dao.db.Where("challenge_id = ?", challengeID).Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to get challenge trades: %w", err)
	}

	return trades, nil
}

// GetOpenTrades gets the open trades of a challenge
func (dao *TradeDAO) GetOpenTrades(challengeID string) ([]models.Trade, error) {
	var trades []models.Trade
	err := dao.db.Where("challenge_id = ? AND status = ?", challengeID, models.TradeStatusOpen).
		Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get open trades: %w", err)
	}
	return trades, nil
}

// GetUserTrades gets all trades for a user across challenges, newest first
func (dao *TradeDAO) GetUserTrades(userID string, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	query := dao.db.Where("user_id = ?", userID).Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to get user trades: %w", err)
	}

	return trades, nil
}

// CloseWithTx marks an open trade closed within a transaction. The status
// guard is part of the UPDATE so two racing closes cannot both succeed;
// the boolean reports whether this call actually closed the trade.
func (dao *TradeDAO) CloseWithTx(tx *gorm.DB, tradeID string, exitPrice, pnl float64, closedAt time.Time) (bool, error) {
	result := tx.Model(&models.Trade{}).
		Where("id = ? AND status = ?", tradeID, models.TradeStatusOpen).
		Updates(map[string]interface{}{
			"exit_price": exitPrice,
			"pnl":        pnl,
			"status":     models.TradeStatusClosed,
			"closed_at":  closedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to close trade: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

package challenge

import (
	"fmt"

	"tradechallenge/internal/models"

	"gorm.io/gorm"
)

// ChallengeDAO handles database operations for challenges
type ChallengeDAO struct {
	db *gorm.DB
}

// ChallengeDAOInterface defines the contract for challenge data access
type ChallengeDAOInterface interface {
	Create(challenge *models.Challenge) error
	CreateWithTx(tx *gorm.DB, challenge *models.Challenge) error
	GetByID(challengeID string) (*models.Challenge, error)
	GetActiveByUser(userID string) (*models.Challenge, error)
	GetUserChallenges(userID string) ([]models.Challenge, error)
	UpdateStatus(challengeID string, status models.ChallengeStatus) error
	RolloverDay(challengeID string) error
	GetByIDWithTx(tx *gorm.DB, challengeID string) (*models.Challenge, error)
	ApplyRealizedPnLWithTx(tx *gorm.DB, challengeID string, pnl float64) error
	UpdateStatusWithTx(tx *gorm.DB, challengeID string, status models.ChallengeStatus) error
}

// NewChallengeDAO creates a new challenge DAO instance
func NewChallengeDAO(db *gorm.DB) ChallengeDAOInterface {
	return &ChallengeDAO{
		db: db,
	}
}

// Create creates a new challenge record
func (dao *ChallengeDAO) Create(challenge *models.Challenge) error {
	if err := dao.db.Create(challenge).Error; err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

// CreateWithTx creates a new challenge record within a transaction
func (dao *ChallengeDAO) CreateWithTx(tx *gorm.DB, challenge *models.Challenge) error {
	if err := tx.Create(challenge).Error; err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

// GetByID retrieves a challenge by ID
func (dao *ChallengeDAO) GetByID(challengeID string) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := dao.db.First(&challenge, "id = ?", challengeID).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// GetActiveByUser gets the most recent active challenge for a user
func (dao *ChallengeDAO) GetActiveByUser(userID string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := dao.db.Where("user_id = ? AND status = ?", userID, models.ChallengeStatusActive).
		Order("created_at DESC").
		First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// GetUserChallenges gets all challenges for a user, newest first
func (dao *ChallengeDAO) GetUserChallenges(userID string) ([]models.Challenge, error) {
	var challenges []models.Challenge
	if err := dao.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&challenges).Error; err != nil {
		return nil, fmt.Errorf("failed to get user challenges: %w", err)
	}
	return challenges, nil
}

// UpdateStatus sets the status of a challenge
func (dao *ChallengeDAO) UpdateStatus(challengeID string, status models.ChallengeStatus) error {
	if err := dao.db.Model(&models.Challenge{}).Where("id = ?", challengeID).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update challenge status: %w", err)
	}
	return nil
}

// RolloverDay resets the daily P&L and increments the trading-day counter.
// Intended to run once per trading-day boundary from an external scheduler.
func (dao *ChallengeDAO) RolloverDay(challengeID string) error {
	err := dao.db.Model(&models.Challenge{}).Where("id = ?", challengeID).
		Updates(map[string]interface{}{
			"daily_pnl":    0,
			"trading_days": gorm.Expr("trading_days + 1"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to roll over trading day: %w", err)
	}
	return nil
}

// GetByIDWithTx retrieves a challenge by ID within a transaction
func (dao *ChallengeDAO) GetByIDWithTx(tx *gorm.DB, challengeID string) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := tx.First(&challenge, "id = ?", challengeID).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// ApplyRealizedPnLWithTx applies a reference-currency P&L to the challenge's
// running totals as a single in-place increment, so concurrent trade closes
// cannot lose updates.
func (dao *ChallengeDAO) ApplyRealizedPnLWithTx(tx *gorm.DB, challengeID string, pnl float64) error {
	err := tx.Model(&models.Challenge{}).Where("id = ?", challengeID).
		Updates(map[string]interface{}{
			"daily_pnl":       gorm.Expr("daily_pnl + ?", pnl),
			"total_pnl":       gorm.Expr("total_pnl + ?", pnl),
			"current_balance": gorm.Expr("current_balance + ?", pnl),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to apply realized pnl: %w", err)
	}
	return nil
}

// UpdateStatusWithTx sets the status of a challenge within a transaction
func (dao *ChallengeDAO) UpdateStatusWithTx(tx *gorm.DB, challengeID string, status models.ChallengeStatus) error {
	if err := tx.Model(&models.Challenge{}).Where("id = ?", challengeID).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update challenge status: %w", err)
	}
	return nil
}

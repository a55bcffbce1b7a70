package challenge

import (
	"fmt"

	"tradechallenge/internal/models"

	"gorm.io/gorm"
)

// PaymentDAO handles database operations for payments
type PaymentDAO struct {
	db *gorm.DB
}

// PaymentDAOInterface defines the contract for payment data access
type PaymentDAOInterface interface {
	Create(payment *models.Payment) error
	GetUserPayments(userID string) ([]models.Payment, error)
	CreateWithTx(tx *gorm.DB, payment *models.Payment) error
}

// NewPaymentDAO creates a new payment DAO instance
func NewPaymentDAO(db *gorm.DB) PaymentDAOInterface {
	return &PaymentDAO{
		db: db,
	}
}

// Create creates a new payment record
func (dao *PaymentDAO) Create(payment *models.Payment) error {
	if err := dao.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetUserPayments gets all payments for a user, newest first
func (dao *PaymentDAO) GetUserPayments(userID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := dao.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to get user payments: %w", err)
	}
	return payments, nil
}

// CreateWithTx creates a new payment record within a transaction
func (dao *PaymentDAO) CreateWithTx(tx *gorm.DB, payment *models.Payment) error {
	if err := tx.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records a plan purchase. Amounts are exact decimals because they
// are customer-facing money, unlike the simulated ledger balances.
type Payment struct {
	ID            string          `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        string          `json:"user_id" gorm:"type:uuid;index;not null"`
	ChallengeID   *string         `json:"challenge_id,omitempty" gorm:"type:uuid;index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Currency      string          `json:"currency" gorm:"not null;default:'MAD'"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"not null;default:'pending'"`
	ProviderRef   string          `json:"provider_ref,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

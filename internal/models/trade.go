package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TradeDirection string
type TradeStatus string

const (
	TradeDirectionBuy  TradeDirection = "buy"
	TradeDirectionSell TradeDirection = "sell"

	TradeStatusOpen   TradeStatus = "open"
	TradeStatusClosed TradeStatus = "closed"
)

// Trade represents one open or closed position belonging to a challenge.
// Prices and P&L are stored in the instrument's native currency; conversion
// to the reference currency happens when the ledger is updated.
type Trade struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey"`
	ChallengeID string         `json:"challenge_id" gorm:"type:uuid;not null;index"`
	UserID      string         `json:"user_id" gorm:"type:uuid;index;not null"`
	Symbol      string         `json:"symbol" gorm:"not null;index"`
	Direction   TradeDirection `json:"direction" gorm:"not null"`
	EntryPrice  float64        `json:"entry_price" gorm:"not null"`
	ExitPrice   *float64       `json:"exit_price,omitempty"`
	Quantity    float64        `json:"quantity" gorm:"not null"`
	Status      TradeStatus    `json:"status" gorm:"not null;default:'open';index"`
	PnL         *float64       `json:"pnl,omitempty" gorm:"column:pnl"`
	OpenedAt    time.Time      `json:"opened_at"`
	ClosedAt    *time.Time     `json:"closed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Relationships
	Challenge Challenge `json:"challenge,omitempty" gorm:"foreignKey:ChallengeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Trade) TableName() string {
	return "trades"
}

// BeforeCreate assigns a UUID when the caller didn't set one.
func (t *Trade) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsOpen reports whether the trade has not been closed yet.
func (t *Trade) IsOpen() bool {
	return t.Status == TradeStatusOpen
}

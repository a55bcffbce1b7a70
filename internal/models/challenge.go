package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChallengePlan string
type ChallengeStatus string

const (
	ChallengePlanStarter ChallengePlan = "starter"
	ChallengePlanPro     ChallengePlan = "pro"
	ChallengePlanElite   ChallengePlan = "elite"

	ChallengeStatusPending ChallengeStatus = "pending"
	ChallengeStatusActive  ChallengeStatus = "active"
	ChallengeStatusPassed  ChallengeStatus = "passed"
	ChallengeStatusFailed  ChallengeStatus = "failed"
	ChallengeStatusFunded  ChallengeStatus = "funded"
)

// IsTerminal reports whether a challenge can no longer change state.
func (s ChallengeStatus) IsTerminal() bool {
	return s == ChallengeStatusPassed || s == ChallengeStatusFailed || s == ChallengeStatusFunded
}

// Challenge represents one paid trading-evaluation account for a user.
// Balances and P&L are tracked in the reference currency (USD); the invariant
// current_balance = initial_balance + total_pnl is maintained by the ledger
// on every trade close.
type Challenge struct {
	ID                  string          `json:"id" gorm:"type:uuid;primaryKey"`
	UserID              string          `json:"user_id" gorm:"type:uuid;index;not null"`
	Plan                ChallengePlan   `json:"plan" gorm:"not null;default:'starter'"`
	Status              ChallengeStatus `json:"status" gorm:"not null;default:'active';index"`
	InitialBalance      float64         `json:"initial_balance" gorm:"not null"`
	CurrentBalance      float64         `json:"current_balance" gorm:"not null"`
	TotalPnL            float64         `json:"total_pnl" gorm:"column:total_pnl;not null;default:0"`
	DailyPnL            float64         `json:"daily_pnl" gorm:"column:daily_pnl;not null;default:0"`
	ProfitTargetPercent float64         `json:"profit_target_percent" gorm:"not null;default:10"`
	MaxDailyLossPercent float64         `json:"max_daily_loss_percent" gorm:"not null;default:5"`
	MaxTotalLossPercent float64         `json:"max_total_loss_percent" gorm:"not null;default:10"`
	TradingDays         int             `json:"trading_days" gorm:"not null;default:0"`
	StartDate           *time.Time      `json:"start_date,omitempty"`
	EndDate             *time.Time      `json:"end_date,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// BeforeCreate assigns a UUID when the caller didn't set one.
func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// PlanSpec describes a purchasable challenge tier. Prices are in display
// currency (DH); capital is the simulated account size in reference currency.
type PlanSpec struct {
	Plan                ChallengePlan   `json:"plan"`
	Price               decimal.Decimal `json:"price"`
	PriceCurrency       string          `json:"price_currency"`
	Capital             float64         `json:"capital"`
	ProfitTargetPercent float64         `json:"profit_target_percent"`
	MaxDailyLossPercent float64         `json:"max_daily_loss_percent"`
	MaxTotalLossPercent float64         `json:"max_total_loss_percent"`
}

// PlanCatalog returns the fixed set of purchasable plans.
func PlanCatalog() []PlanSpec {
	return []PlanSpec{
		{
			Plan:                ChallengePlanStarter,
			Price:               decimal.NewFromInt(200),
			PriceCurrency:       "MAD",
			Capital:             5000,
			ProfitTargetPercent: 10,
			MaxDailyLossPercent: 5,
			MaxTotalLossPercent: 10,
		},
		{
			Plan:                ChallengePlanPro,
			Price:               decimal.NewFromInt(500),
			PriceCurrency:       "MAD",
			Capital:             25000,
			ProfitTargetPercent: 10,
			MaxDailyLossPercent: 5,
			MaxTotalLossPercent: 10,
		},
		{
			Plan:                ChallengePlanElite,
			Price:               decimal.NewFromInt(1000),
			PriceCurrency:       "MAD",
			Capital:             100000,
			ProfitTargetPercent: 8,
			MaxDailyLossPercent: 4,
			MaxTotalLossPercent: 8,
		},
	}
}

// PlanSpecFor looks up a plan by name.
func PlanSpecFor(plan ChallengePlan) (PlanSpec, bool) {
	for _, spec := range PlanCatalog() {
		if spec.Plan == plan {
			return spec, true
		}
	}
	return PlanSpec{}, false
}

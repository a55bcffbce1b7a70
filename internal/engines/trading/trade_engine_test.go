package trading

import (
	"fmt"
	"testing"

	"tradechallenge/internal/currency"
	dao "tradechallenge/internal/dao/challenge"
	"tradechallenge/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Challenge{}, &models.Trade{}))
	return db
}

func seedChallenge(t *testing.T, db *gorm.DB, status models.ChallengeStatus) *models.Challenge {
	t.Helper()

	challenge := &models.Challenge{
		UserID:              uuid.NewString(),
		Plan:                models.ChallengePlanStarter,
		Status:              status,
		InitialBalance:      5000,
		CurrentBalance:      5000,
		ProfitTargetPercent: 10,
		MaxDailyLossPercent: 5,
		MaxTotalLossPercent: 10,
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func newEngine(db *gorm.DB, autoEnforce bool) TradeEngineInterface {
	return NewTradeEngine(
		dao.NewChallengeDAO(db),
		dao.NewTradeDAO(db),
		currency.NewDefaultConverter(),
		nil,
		db,
		autoEnforce,
	)
}

func TestOpenTrade(t *testing.T) {
	db := newTestDB(t)
	challenge := seedChallenge(t, db, models.ChallengeStatusActive)
	engine := newEngine(db, false)

	trade, err := engine.OpenTrade(challenge.UserID, challenge.ID, "AAPL", models.TradeDirectionBuy, 178.45, 10)
	require.NoError(t, err)

	assert.NotEmpty(t, trade.ID)
	assert.Equal(t, models.TradeStatusOpen, trade.Status)
	assert.Nil(t, trade.ExitPrice)
	assert.Nil(t, trade.PnL)

	var stored models.Trade
	require.NoError(t, db.First(&stored, "id = ?", trade.ID).Error)
	assert.Equal(t, challenge.ID, stored.ChallengeID)
	assert.Equal(t, models.TradeStatusOpen, stored.Status)
}

func TestOpenTrade_InactiveChallenge(t *testing.T) {
	db := newTestDB(t)
	engine := newEngine(db, false)

	for _, status := range []models.ChallengeStatus{
		models.ChallengeStatusPending,
		models.ChallengeStatusPassed,
		models.ChallengeStatusFailed,
		models.ChallengeStatusFunded,
	} {
		challenge := seedChallenge(t, db, status)
		_, err := engine.OpenTrade(challenge.UserID, challenge.ID, "AAPL", models.TradeDirectionBuy, 100, 1)
		assert.ErrorIs(t, err, ErrChallengeNotActive, "status %s", status)
	}
}

func TestOpenTrade_ChallengeNotFound(t *testing.T) {
	db := newTestDB(t)
	engine := newEngine(db, false)

	_, err := engine.OpenTrade(uuid.NewString(), uuid.NewString(), "AAPL", models.TradeDirectionBuy, 100, 1)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestOpenTrade_Validation(t *testing.T) {
	db := newTestDB(t)
	challenge := seedChallenge(t, db, models.ChallengeStatusActive)
	engine := newEngine(db, false)

	_, err := engine.OpenTrade(challenge.UserID, challenge.ID, "", models.TradeDirectionBuy, 100, 1)
	assert.Error(t, err)

	_, err = engine.OpenTrade(challenge.UserID, challenge.ID, "AAPL", "hold", 100, 1)
	assert.Error(t, err)

	_, err = engine.OpenTrade(challenge.UserID, challenge.ID, "AAPL", models.TradeDirectionBuy, 100, -1)
	assert.Error(t, err)
}

// Small losing close on a dirham-quoted symbol: -1000 MAD converts to
// -100 USD against a $5,000 account, -2% daily, no breach.
func TestCloseTrade_ConvertsAndAppliesLedger(t *testing.T) {
	db := newTestDB(t)
	challenge := seedChallenge(t, db, models.ChallengeStatusActive)
	engine := newEngine(db, true)

	trade, err := engine.OpenTrade(challenge.UserID, challenge.ID, "ATW", models.TradeDirectionBuy, 100, 10)
	require.NoError(t, err)

	closed, err := engine.CloseTrade(trade.ID, 90)
	require.NoError(t, err)

	require.NotNil(t, closed.PnL)
	require.NotNil(t, closed.ExitPrice)
	require.NotNil(t, closed.ClosedAt)
	assert.InDelta(t, -1000.0, *closed.PnL, 1e-9) // native currency
	assert.Equal(t, models.TradeStatusClosed, closed.Status)

	var got models.Challenge
	require.NoError(t, db.First(&got, "id = ?", challenge.ID).Error)
	assert.InDelta(t, -100.0, got.DailyPnL, 1e-9)
	assert.InDelta(t, -100.0, got.TotalPnL, 1e-9)
	assert.InDelta(t, 4900.0, got.CurrentBalance, 1e-9)
	assert.InDelta(t, got.InitialBalance+got.TotalPnL, got.CurrentBalance, 1e-9)
	assert.Equal(t, models.ChallengeStatusActive, got.Status)
}

// Deep losing close: -5000 MAD is -500 USD, -10% daily against a 5% limit.
// With enforcement on, the challenge fails at close time.
func TestCloseTrade_BreachAutoFails(t *testing.T) {
	db := newTestDB(t)
	challenge := seedChallenge(t, db, models.ChallengeStatusActive)
	engine := newEngine(db, true)

	trade, err := engine.OpenTrade(challenge.UserID, challenge.ID, "ATW", models.TradeDirectionBuy, 100, 10)
	require.NoError(t, err)

	_, err = engine.CloseTrade(trade.ID, 50)
	require.NoError(t, err)

	var got models.Challenge
	require.NoError(t, db.First(&got, "id = ?", challenge.ID).Error)
	assert.InDelta(t, -500.0, got.DailyPnL, 1e-9)
	assert.Equal(t, models.ChallengeStatusFailed, got.Status)
}

func TestCloseTrade_BreachAdvisoryWhenEnforcementOff(t *testing.T) {
	db := newTestDB(t)
	challenge := seedChallenge(t, db, models.ChallengeStatusActive)
	engine := newEngine(db, false)

	trade, err := engine.OpenTrade(challenge.UserID, challenge.ID, "ATW", models.TradeDirectionBuy, 100, 10)
	require.NoError(t, err)

	_, err = engine.CloseTrade(trade.ID, 50)
	require.NoError(t, err)

	var got models.Challenge
	require.NoError(t, db.First(&got, "id = ?", challenge.ID).Error)
	assert.Equal(t, models.ChallengeStatusActive, got.Status)
}

func TestCloseTrade_TargetAutoPasses(t *testing.T) {
	db := newTestDB(t)
	challenge := seedChallenge(t, db, models.ChallengeStatusActive)
	engine := newEngine(db, true)

	// +500 USD on a $5,000 account hits the 10% target exactly.
	trade, err := engine.OpenTrade(challenge.UserID, challenge.ID, "AAPL", models.TradeDirectionBuy, 100, 10)
	require.NoError(t, err)

	_, err = engine.CloseTrade(trade.ID, 150)
	require.NoError(t, err)

	var got models.Challenge
	require.NoError(t, db.First(&got, "id = ?", challenge.ID).Error)
	assert.InDelta(t, 500.0, got.TotalPnL, 1e-9)
	assert.Equal(t, models.ChallengeStatusPassed, got.Status)
}

func TestCloseTrade_DoubleCloseDoesNotDoubleApply(t *testing.T) {
	db := newTestDB(t)
	challenge := seedChallenge(t, db, models.ChallengeStatusActive)
	engine := newEngine(db, false)

	trade, err := engine.OpenTrade(challenge.UserID, challenge.ID, "AAPL", models.TradeDirectionBuy, 100, 10)
	require.NoError(t, err)

	_, err = engine.CloseTrade(trade.ID, 110)
	require.NoError(t, err)

	_, err = engine.CloseTrade(trade.ID, 120)
	assert.ErrorIs(t, err, ErrTradeAlreadyClosed)

	var got models.Challenge
	require.NoError(t, db.First(&got, "id = ?", challenge.ID).Error)
	assert.InDelta(t, 100.0, got.TotalPnL, 1e-9)
	assert.InDelta(t, 5100.0, got.CurrentBalance, 1e-9)
}

func TestCloseTrade_NotFound(t *testing.T) {
	db := newTestDB(t)
	engine := newEngine(db, false)

	_, err := engine.CloseTrade(uuid.NewString(), 100)
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestCloseTrade_SellDirection(t *testing.T) {
	db := newTestDB(t)
	challenge := seedChallenge(t, db, models.ChallengeStatusActive)
	engine := newEngine(db, false)

	trade, err := engine.OpenTrade(challenge.UserID, challenge.ID, "TSLA", models.TradeDirectionSell, 200, 5)
	require.NoError(t, err)

	closed, err := engine.CloseTrade(trade.ID, 180)
	require.NoError(t, err)

	require.NotNil(t, closed.PnL)
	assert.InDelta(t, 100.0, *closed.PnL, 1e-9)
}

func TestRolloverDay(t *testing.T) {
	db := newTestDB(t)
	challenge := seedChallenge(t, db, models.ChallengeStatusActive)
	challengeDAO := dao.NewChallengeDAO(db)

	require.NoError(t, db.Model(challenge).Updates(map[string]interface{}{
		"daily_pnl":       -300,
		"total_pnl":       -300,
		"current_balance": 4700,
		"trading_days":    4,
	}).Error)

	require.NoError(t, challengeDAO.RolloverDay(challenge.ID))

	var got models.Challenge
	require.NoError(t, db.First(&got, "id = ?", challenge.ID).Error)
	assert.Zero(t, got.DailyPnL)
	assert.Equal(t, 5, got.TradingDays)
	assert.InDelta(t, -300.0, got.TotalPnL, 1e-9)
	assert.InDelta(t, 4700.0, got.CurrentBalance, 1e-9)
}

func TestBalanceInvariantAcrossCloses(t *testing.T) {
	db := newTestDB(t)
	challenge := seedChallenge(t, db, models.ChallengeStatusActive)
	engine := newEngine(db, false)

	closes := []struct {
		symbol    string
		direction models.TradeDirection
		entry     float64
		exit      float64
		quantity  float64
	}{
		{"AAPL", models.TradeDirectionBuy, 100, 104, 10},
		{"ATW", models.TradeDirectionSell, 480, 500, 5},
		{"BTC", models.TradeDirectionBuy, 90000, 90100, 0.01},
	}

	for _, c := range closes {
		trade, err := engine.OpenTrade(challenge.UserID, challenge.ID, c.symbol, c.direction, c.entry, c.quantity)
		require.NoError(t, err)
		_, err = engine.CloseTrade(trade.ID, c.exit)
		require.NoError(t, err)

		var got models.Challenge
		require.NoError(t, db.First(&got, "id = ?", challenge.ID).Error)
		assert.InDelta(t, got.InitialBalance+got.TotalPnL, got.CurrentBalance, 1e-9)
	}
}

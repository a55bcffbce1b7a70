package services

import (
	"fmt"
	"testing"

	dao "tradechallenge/internal/dao/challenge"
	"tradechallenge/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.Challenge{},
		&models.Trade{},
		&models.Payment{},
	))
	return db
}

func newChallengeService(db *gorm.DB) *ChallengeService {
	return NewChallengeService(dao.NewChallengeDAO(db), dao.NewPaymentDAO(db), db)
}

func TestPurchasePlan(t *testing.T) {
	db := newTestDB(t)
	service := newChallengeService(db)
	userID := uuid.NewString()

	challenge, err := service.PurchasePlan(userID, models.ChallengePlanPro, "card")
	require.NoError(t, err)

	assert.Equal(t, models.ChallengeStatusActive, challenge.Status)
	assert.Equal(t, float64(25000), challenge.InitialBalance)
	assert.Equal(t, float64(25000), challenge.CurrentBalance)
	assert.Equal(t, float64(10), challenge.ProfitTargetPercent)
	assert.NotNil(t, challenge.StartDate)

	var payment models.Payment
	require.NoError(t, db.First(&payment, "user_id = ?", userID).Error)
	assert.Equal(t, models.PaymentStatusCompleted, payment.PaymentStatus)
	assert.Equal(t, "MAD", payment.Currency)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(500)),
		"expected 500, got %s", payment.Amount)
	require.NotNil(t, payment.ChallengeID)
	assert.Equal(t, challenge.ID, *payment.ChallengeID)
}

func TestPurchasePlanUnknownPlan(t *testing.T) {
	db := newTestDB(t)
	service := newChallengeService(db)

	_, err := service.PurchasePlan(uuid.NewString(), models.ChallengePlan("platinum"), "card")
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Challenge{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetActiveChallenge(t *testing.T) {
	db := newTestDB(t)
	service := newChallengeService(db)
	userID := uuid.NewString()

	_, err := service.GetActiveChallenge(userID)
	assert.ErrorIs(t, err, ErrNoActiveChallenge)

	purchased, err := service.PurchasePlan(userID, models.ChallengePlanStarter, "card")
	require.NoError(t, err)

	state, err := service.GetActiveChallenge(userID)
	require.NoError(t, err)
	assert.Equal(t, purchased.ID, state.Challenge.ID)
	assert.False(t, state.Rules.Breached())
	assert.Zero(t, state.Rules.ProgressToTarget)
}

func TestRolloverDay(t *testing.T) {
	db := newTestDB(t)
	service := newChallengeService(db)

	challenge, err := service.PurchasePlan(uuid.NewString(), models.ChallengePlanStarter, "card")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Challenge{}).Where("id = ?", challenge.ID).
		Updates(map[string]interface{}{"daily_pnl": -120.0, "total_pnl": -120.0}).Error)

	require.NoError(t, service.RolloverDay(challenge.ID))

	var reloaded models.Challenge
	require.NoError(t, db.First(&reloaded, "id = ?", challenge.ID).Error)
	assert.Zero(t, reloaded.DailyPnL)
	assert.Equal(t, -120.0, reloaded.TotalPnL)
	assert.Equal(t, 1, reloaded.TradingDays)

	err = service.RolloverDay(uuid.NewString())
	assert.Error(t, err)
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	service := newChallengeService(db)

	t.Run("active to failed", func(t *testing.T) {
		challenge, err := service.PurchasePlan(uuid.NewString(), models.ChallengePlanStarter, "card")
		require.NoError(t, err)

		updated, err := service.UpdateStatus(challenge.ID, models.ChallengeStatusFailed)
		require.NoError(t, err)
		assert.Equal(t, models.ChallengeStatusFailed, updated.Status)
	})

	t.Run("failed stays terminal", func(t *testing.T) {
		challenge, err := service.PurchasePlan(uuid.NewString(), models.ChallengePlanStarter, "card")
		require.NoError(t, err)

		_, err = service.UpdateStatus(challenge.ID, models.ChallengeStatusFailed)
		require.NoError(t, err)

		_, err = service.UpdateStatus(challenge.ID, models.ChallengeStatusActive)
		assert.Error(t, err)
	})

	t.Run("passed can only move to funded", func(t *testing.T) {
		challenge, err := service.PurchasePlan(uuid.NewString(), models.ChallengePlanStarter, "card")
		require.NoError(t, err)

		_, err = service.UpdateStatus(challenge.ID, models.ChallengeStatusPassed)
		require.NoError(t, err)

		_, err = service.UpdateStatus(challenge.ID, models.ChallengeStatusActive)
		assert.Error(t, err)

		updated, err := service.UpdateStatus(challenge.ID, models.ChallengeStatusFunded)
		require.NoError(t, err)
		assert.Equal(t, models.ChallengeStatusFunded, updated.Status)

		_, err = service.UpdateStatus(challenge.ID, models.ChallengeStatusActive)
		assert.Error(t, err)
	})
}

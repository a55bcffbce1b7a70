package services

import (
	"testing"

	"tradechallenge/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRankedChallenge(t *testing.T, db *gorm.DB, fullName string, initialBalance, totalPnL float64, tradePnLs []float64) *models.Challenge {
	t.Helper()

	userID := uuid.NewString()
	require.NoError(t, db.Create(&models.Profile{ID: userID, Email: userID + "@example.com", FullName: fullName}).Error)

	challenge := &models.Challenge{
		UserID:         userID,
		Plan:           models.ChallengePlanStarter,
		Status:         models.ChallengeStatusActive,
		InitialBalance: initialBalance,
		CurrentBalance: initialBalance + totalPnL,
		TotalPnL:       totalPnL,
	}
	require.NoError(t, db.Create(challenge).Error)

	for _, pnl := range tradePnLs {
		p := pnl
		exit := 100.0
		require.NoError(t, db.Create(&models.Trade{
			ChallengeID: challenge.ID,
			UserID:      userID,
			Symbol:      "AAPL",
			Direction:   models.TradeDirectionBuy,
			EntryPrice:  100,
			ExitPrice:   &exit,
			Quantity:    1,
			Status:      models.TradeStatusClosed,
			PnL:         &p,
		}).Error)
	}

	return challenge
}

func TestGetLeaderboard(t *testing.T) {
	db := newTestDB(t)
	service := NewLeaderboardService(db)

	seedRankedChallenge(t, db, "Trailing Trader", 5000, -250, []float64{-100, -150})
	seedRankedChallenge(t, db, "Leading Trader", 5000, 400, []float64{250, -50, 200})
	seedRankedChallenge(t, db, "Flat Trader", 25000, 0, nil)

	entries, err := service.GetLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Leading Trader", entries[0].FullName)
	assert.InDelta(t, 8.0, entries[0].ProfitPercent, 1e-9)
	assert.Equal(t, 3, entries[0].TotalTrades)
	assert.Equal(t, 2, entries[0].WinningTrades)

	assert.Equal(t, "Flat Trader", entries[1].FullName)
	assert.Zero(t, entries[1].ProfitPercent)
	assert.Zero(t, entries[1].TotalTrades)

	assert.Equal(t, "Trailing Trader", entries[2].FullName)
	assert.InDelta(t, -5.0, entries[2].ProfitPercent, 1e-9)
	assert.Equal(t, 0, entries[2].WinningTrades)
}

func TestGetLeaderboardLimit(t *testing.T) {
	db := newTestDB(t)
	service := NewLeaderboardService(db)

	for i := 0; i < 5; i++ {
		seedRankedChallenge(t, db, "Trader", 5000, float64(i*100), nil)
	}

	entries, err := service.GetLeaderboard(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// Out-of-range limits fall back to the default.
	entries, err = service.GetLeaderboard(-1)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

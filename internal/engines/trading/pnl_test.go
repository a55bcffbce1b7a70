package trading

import (
	"testing"

	"tradechallenge/internal/currency"
	"tradechallenge/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRealizedPnL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		direction models.TradeDirection
		entry     float64
		exit      float64
		quantity  float64
		want      float64
	}{
		{"buy profit", models.TradeDirectionBuy, 100, 110, 10, 100},
		{"buy loss", models.TradeDirectionBuy, 100, 90, 10, -100},
		{"sell profit", models.TradeDirectionSell, 200, 180, 5, 100},
		{"sell loss", models.TradeDirectionSell, 200, 210, 5, -50},
		{"flat exit", models.TradeDirectionBuy, 150, 150, 20, 0},
		{"fractional quantity", models.TradeDirectionBuy, 1.2, 1.5, 0.5, 0.15},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RealizedPnL(tt.direction, tt.entry, tt.exit, tt.quantity)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestUnrealizedPnL_LivePrices(t *testing.T) {
	t.Parallel()

	conv := currency.NewDefaultConverter()
	trades := []models.Trade{
		{Symbol: "AAPL", Direction: models.TradeDirectionBuy, EntryPrice: 100, Quantity: 10, Status: models.TradeStatusOpen},
		{Symbol: "ATW", Direction: models.TradeDirectionSell, EntryPrice: 500, Quantity: 2, Status: models.TradeStatusOpen},
	}
	prices := map[string]float64{
		"AAPL": 105, // +50 USD
		"ATW":  480, // +40 MAD -> +4 USD
	}

	got := UnrealizedPnL(trades, prices, conv)
	assert.InDelta(t, 54.0, got, 1e-9)
}

func TestUnrealizedPnL_FallsBackToEntryPrice(t *testing.T) {
	t.Parallel()

	conv := currency.NewDefaultConverter()

	// No live price for the symbol: entry price is used and the trade
	// contributes zero.
	trades := []models.Trade{
		{Symbol: "TSLA", Direction: models.TradeDirectionSell, EntryPrice: 200, Quantity: 5, Status: models.TradeStatusOpen},
	}

	got := UnrealizedPnL(trades, map[string]float64{}, conv)
	assert.Zero(t, got)

	// A zero price is treated the same as a missing one.
	got = UnrealizedPnL(trades, map[string]float64{"TSLA": 0}, conv)
	assert.Zero(t, got)
}

func TestUnrealizedPnL_SkipsClosedTrades(t *testing.T) {
	t.Parallel()

	conv := currency.NewDefaultConverter()
	pnl := -40.0
	trades := []models.Trade{
		{Symbol: "AAPL", Direction: models.TradeDirectionBuy, EntryPrice: 100, Quantity: 10, Status: models.TradeStatusClosed, PnL: &pnl},
		{Symbol: "AAPL", Direction: models.TradeDirectionBuy, EntryPrice: 100, Quantity: 1, Status: models.TradeStatusOpen},
	}

	got := UnrealizedPnL(trades, map[string]float64{"AAPL": 110}, conv)
	assert.InDelta(t, 10.0, got, 1e-9)
}

package trading

import (
	"tradechallenge/internal/currency"
	"tradechallenge/internal/models"
)

// RealizedPnL computes the profit or loss of a position at the given exit
// price, in the instrument's native currency.
//
//	buy:  (exit - entry) * quantity
//	sell: (entry - exit) * quantity
func RealizedPnL(direction models.TradeDirection, entryPrice, exitPrice, quantity float64) float64 {
	if direction == models.TradeDirectionBuy {
		return (exitPrice - entryPrice) * quantity
	}
	return (entryPrice - exitPrice) * quantity
}

// UnrealizedPnL sums the paper P&L of the given open trades against live
// prices, converted to the reference currency. A symbol without a live price
// falls back to its entry price, contributing zero. Closed trades in the
// input are skipped. Pure read; nothing is persisted.
func UnrealizedPnL(trades []models.Trade, pricesBySymbol map[string]float64, converter *currency.Converter) float64 {
	var total float64
	for _, trade := range trades {
		if trade.Status != models.TradeStatusOpen {
			continue
		}

		price, ok := pricesBySymbol[trade.Symbol]
		if !ok || price <= 0 {
			price = trade.EntryPrice
		}

		nativePnL := RealizedPnL(trade.Direction, trade.EntryPrice, price, trade.Quantity)
		total += converter.ToReference(nativePnL, trade.Symbol)
	}
	return total
}

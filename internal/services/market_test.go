package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBourseQuotes(t *testing.T) {
	t.Parallel()

	bs := NewBourseService()

	assert.True(t, bs.IsBourseSymbol("IAM"))
	assert.False(t, bs.IsBourseSymbol("AAPL"))
	assert.Len(t, bs.BourseSymbols(), 6)

	quote, err := bs.GetQuote("ATW")
	require.NoError(t, err)
	assert.Equal(t, "ATW", quote.Symbol)
	assert.Equal(t, "Attijariwafa Bank", quote.Name)
	// A tick moves at most 0.5% off the reference price.
	assert.InDelta(t, 484.36, quote.Price, 484.36*0.01)
	assert.NotZero(t, quote.Timestamp)

	_, err = bs.GetQuote("UNKNOWN")
	assert.Error(t, err)
}

func TestBourseQuotesStayNearReference(t *testing.T) {
	t.Parallel()

	bs := NewBourseService()
	for i := 0; i < 200; i++ {
		quote, err := bs.GetQuote("IAM")
		require.NoError(t, err)
		assert.InDelta(t, 110.70, quote.Price, 110.70*0.25)
	}
}

func TestStaticQuoteRouting(t *testing.T) {
	t.Parallel()

	mds := NewMarketDataService(NewBinanceService(), NewBourseService(), nil)

	quote, err := mds.GetQuote("AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", quote.Name)
	assert.Equal(t, 178.45, quote.Price)

	_, err = mds.GetQuote("NOPE")
	assert.Error(t, err)

	prices := mds.GetCurrentPrices([]string{"AAPL", "NOPE", "IAM"})
	assert.Len(t, prices, 2)
	assert.Equal(t, 178.45, prices["AAPL"])
	assert.Contains(t, prices, "IAM")
}

func TestSupportedSymbols(t *testing.T) {
	t.Parallel()

	mds := NewMarketDataService(NewBinanceService(), NewBourseService(), nil)

	categories := mds.SupportedSymbols()
	require.Len(t, categories, 3)

	byName := make(map[string][]string, len(categories))
	for _, c := range categories {
		byName[c.Name] = c.Symbols
	}
	assert.Contains(t, byName["crypto"], "BTC")
	assert.Contains(t, byName["casablanca"], "IAM")
	assert.Contains(t, byName["global"], "EURUSD")
}

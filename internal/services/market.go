package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tradechallenge/internal/models"

	"github.com/redis/go-redis/v9"
)

// staticQuotes holds last-session reference quotes for instruments that have
// no live upstream wired (US equities, forex, commodities, indices). They
// keep the dashboard and unrealized P&L working when a live feed is down.
var staticQuotes = map[string]models.Quote{
	"AAPL":   {Symbol: "AAPL", Name: "Apple Inc.", Price: 178.45, Change: 2.34, ChangePercent: 1.33},
	"MSFT":   {Symbol: "MSFT", Name: "Microsoft", Price: 374.12, Change: -1.23, ChangePercent: -0.33},
	"GOOGL":  {Symbol: "GOOGL", Name: "Alphabet", Price: 141.80, Change: 1.56, ChangePercent: 1.11},
	"AMZN":   {Symbol: "AMZN", Name: "Amazon", Price: 178.25, Change: 3.45, ChangePercent: 1.97},
	"NVDA":   {Symbol: "NVDA", Name: "NVIDIA", Price: 495.22, Change: 12.50, ChangePercent: 2.59},
	"TSLA":   {Symbol: "TSLA", Name: "Tesla", Price: 248.50, Change: -5.30, ChangePercent: -2.09},
	"META":   {Symbol: "META", Name: "Meta Platforms", Price: 505.75, Change: 8.20, ChangePercent: 1.65},
	"EURUSD": {Symbol: "EURUSD", Name: "EUR/USD", Price: 1.0875, Change: 0.0023, ChangePercent: 0.21},
	"GBPUSD": {Symbol: "GBPUSD", Name: "GBP/USD", Price: 1.2695, Change: -0.0045, ChangePercent: -0.35},
	"USDJPY": {Symbol: "USDJPY", Name: "USD/JPY", Price: 142.35, Change: 0.85, ChangePercent: 0.60},
	"XAUUSD": {Symbol: "XAUUSD", Name: "Gold", Price: 2045.30, Change: 15.80, ChangePercent: 0.78},
	"SPX500": {Symbol: "SPX500", Name: "S&P 500", Price: 4780.25, Change: 28.50, ChangePercent: 0.60},
}

const quoteCacheTTL = 30 * time.Second

// MarketDataService provides quote lookup across all instrument sources
type MarketDataService struct {
	binance *BinanceService
	bourse  *BourseService
	cache   *redis.Client
}

// MarketDataServiceInterface defines the contract for market data services
type MarketDataServiceInterface interface {
	GetQuote(symbol string) (*models.Quote, error)
	GetQuotes(symbols []string) []models.Quote
	GetCurrentPrices(symbols []string) map[string]float64
	SupportedSymbols() []models.InstrumentCategory
}

// NewMarketDataService creates a new market data service. The redis client
// may be nil; quotes then skip the cache entirely.
func NewMarketDataService(binanceService *BinanceService, bourseService *BourseService, cache *redis.Client) MarketDataServiceInterface {
	return &MarketDataService{
		binance: binanceService,
		bourse:  bourseService,
		cache:   cache,
	}
}

// GetQuote returns the current quote for a symbol, from cache when fresh.
func (mds *MarketDataService) GetQuote(symbol string) (*models.Quote, error) {
	if quote := mds.cachedQuote(symbol); quote != nil {
		return quote, nil
	}

	quote, err := mds.fetchQuote(symbol)
	if err != nil {
		return nil, err
	}

	mds.storeQuote(quote)
	return quote, nil
}

// GetQuotes returns quotes for the given symbols, skipping ones that fail.
func (mds *MarketDataService) GetQuotes(symbols []string) []models.Quote {
	quotes := make([]models.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		quote, err := mds.GetQuote(symbol)
		if err != nil {
			log.Printf("Skipping quote for %s: %v", symbol, err)
			continue
		}
		quotes = append(quotes, *quote)
	}
	return quotes
}

// GetCurrentPrices returns a symbol-to-price map for the given symbols.
// Symbols without a quote are simply absent; callers fall back to entry
// prices for unrealized P&L.
func (mds *MarketDataService) GetCurrentPrices(symbols []string) map[string]float64 {
	prices := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		quote, err := mds.GetQuote(symbol)
		if err != nil {
			continue
		}
		prices[symbol] = quote.Price
	}
	return prices
}

// SupportedSymbols lists the tradeable instruments grouped by category.
func (mds *MarketDataService) SupportedSymbols() []models.InstrumentCategory {
	var static []string
	for s := range staticQuotes {
		static = append(static, s)
	}
	return []models.InstrumentCategory{
		{Name: "crypto", Symbols: mds.binance.CryptoSymbols()},
		{Name: "casablanca", Symbols: mds.bourse.BourseSymbols()},
		{Name: "global", Symbols: static},
	}
}

// fetchQuote routes a symbol to its upstream source.
func (mds *MarketDataService) fetchQuote(symbol string) (*models.Quote, error) {
	switch {
	case mds.binance.IsCryptoSymbol(symbol):
		quote, err := mds.binance.GetQuote(symbol)
		if err == nil {
			return quote, nil
		}
		log.Printf("Binance quote for %s failed, using reference quote: %v", symbol, err)
		return mds.staticQuote(symbol)

	case mds.bourse.IsBourseSymbol(symbol):
		return mds.bourse.GetQuote(symbol)

	default:
		return mds.staticQuote(symbol)
	}
}

func (mds *MarketDataService) staticQuote(symbol string) (*models.Quote, error) {
	quote, ok := staticQuotes[symbol]
	if !ok {
		return nil, fmt.Errorf("unsupported symbol: %s", symbol)
	}
	quote.Timestamp = time.Now().UnixMilli()
	return &quote, nil
}

func (mds *MarketDataService) cachedQuote(symbol string) *models.Quote {
	if mds.cache == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	data, err := mds.cache.Get(ctx, quoteCacheKey(symbol)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Quote cache read for %s failed: %v", symbol, err)
		}
		return nil
	}

	var quote models.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		log.Printf("Corrupt cached quote for %s: %v", symbol, err)
		return nil
	}
	return &quote
}

func (mds *MarketDataService) storeQuote(quote *models.Quote) {
	if mds.cache == nil {
		return
	}

	data, err := json.Marshal(quote)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := mds.cache.Set(ctx, quoteCacheKey(quote.Symbol), data, quoteCacheTTL).Err(); err != nil {
		log.Printf("Quote cache write for %s failed: %v", quote.Symbol, err)
	}
}

func quoteCacheKey(symbol string) string {
	return "quote:" + symbol
}

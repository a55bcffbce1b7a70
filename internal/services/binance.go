package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"tradechallenge/internal/models"

	"github.com/adshao/go-binance/v2"
)

// cryptoPairs maps the platform's crypto symbols to Binance spot pairs.
var cryptoPairs = map[string]string{
	"BTC":  "BTCUSDT",
	"ETH":  "ETHUSDT",
	"BNB":  "BNBUSDT",
	"SOL":  "SOLUSDT",
	"XRP":  "XRPUSDT",
	"ADA":  "ADAUSDT",
	"DOGE": "DOGEUSDT",
}

// BinanceService wraps the Binance API client for crypto quotes
type BinanceService struct {
	client       *binance.Client
	lastRequest  time.Time
	requestMutex sync.Mutex
}

// NewBinanceService creates a new Binance service instance
// Note: no API keys needed for public ticker data
func NewBinanceService() *BinanceService {
	return &BinanceService{
		client:      binance.NewClient("", ""),
		lastRequest: time.Now(),
	}
}

// IsCryptoSymbol reports whether the symbol is quoted via Binance.
func (b *BinanceService) IsCryptoSymbol(symbol string) bool {
	_, ok := cryptoPairs[symbol]
	return ok
}

// CryptoSymbols returns the crypto symbols this service can quote.
func (b *BinanceService) CryptoSymbols() []string {
	symbols := make([]string, 0, len(cryptoPairs))
	for s := range cryptoPairs {
		symbols = append(symbols, s)
	}
	return symbols
}

// GetQuote fetches the current price for a crypto symbol
func (b *BinanceService) GetQuote(symbol string) (*models.Quote, error) {
	pair, ok := cryptoPairs[symbol]
	if !ok {
		return nil, fmt.Errorf("unsupported crypto symbol: %s", symbol)
	}

	b.throttle()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := b.client.NewListPriceChangeStatsService().Symbol(pair).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticker for %s: %w", pair, err)
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("no ticker data for %s", pair)
	}

	s := stats[0]
	price, err := strconv.ParseFloat(s.LastPrice, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q: %w", s.LastPrice, err)
	}

	change, _ := strconv.ParseFloat(s.PriceChange, 64)
	changePercent, _ := strconv.ParseFloat(s.PriceChangePercent, 64)
	high, _ := strconv.ParseFloat(s.HighPrice, 64)
	low, _ := strconv.ParseFloat(s.LowPrice, 64)
	open, _ := strconv.ParseFloat(s.OpenPrice, 64)
	prevClose, _ := strconv.ParseFloat(s.PrevClosePrice, 64)

	return &models.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		High:          high,
		Low:           low,
		Open:          open,
		PreviousClose: prevClose,
		Timestamp:     time.Now().UnixMilli(),
	}, nil
}

// throttle spaces out requests to stay well inside Binance's public rate limits
func (b *BinanceService) throttle() {
	b.requestMutex.Lock()
	defer b.requestMutex.Unlock()

	const minInterval = 100 * time.Millisecond
	if elapsed := time.Since(b.lastRequest); elapsed < minInterval {
		time.Sleep(minInterval - elapsed)
	}
	b.lastRequest = time.Now()
}

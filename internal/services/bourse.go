package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"tradechallenge/internal/models"
)

// bourseInstrument carries the reference data for one Casablanca listing.
type bourseInstrument struct {
	name      string
	basePrice float64
}

// Reference prices for Bourse de Casablanca listings, in dirhams. The live
// exchange has no public quote API, so quotes are synthesized as a small
// random walk around the reference price, the same degrade path the hosted
// quote proxy used when scraping failed.
var bourseInstruments = map[string]bourseInstrument{
	"IAM": {name: "Maroc Telecom", basePrice: 110.70},
	"ATW": {name: "Attijariwafa Bank", basePrice: 484.36},
	"BCP": {name: "Banque Populaire", basePrice: 261.40},
	"LHM": {name: "LafargeHolcim Maroc", basePrice: 1845.04},
	"CIH": {name: "CIH Bank", basePrice: 345.00},
	"TQM": {name: "Taqa Morocco", basePrice: 1125.00},
}

// BourseService serves quotes for Casablanca bourse instruments
type BourseService struct {
	mu         sync.Mutex
	lastPrices map[string]float64
	rng        *rand.Rand
}

// NewBourseService creates a new bourse quote service
func NewBourseService() *BourseService {
	return &BourseService{
		lastPrices: make(map[string]float64, len(bourseInstruments)),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// IsBourseSymbol reports whether the symbol is a Casablanca listing.
func (bs *BourseService) IsBourseSymbol(symbol string) bool {
	_, ok := bourseInstruments[symbol]
	return ok
}

// BourseSymbols returns the Casablanca symbols this service can quote.
func (bs *BourseService) BourseSymbols() []string {
	symbols := make([]string, 0, len(bourseInstruments))
	for s := range bourseInstruments {
		symbols = append(symbols, s)
	}
	return symbols
}

// GetQuote returns the current synthetic quote for a Casablanca symbol
func (bs *BourseService) GetQuote(symbol string) (*models.Quote, error) {
	inst, ok := bourseInstruments[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown bourse symbol: %s", symbol)
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()

	last, ok := bs.lastPrices[symbol]
	if !ok {
		last = inst.basePrice
	}

	// Walk up to ±0.5% per tick, pulled back toward the reference price so
	// synthetic quotes don't drift without bound.
	step := last * (bs.rng.Float64() - 0.5) / 100
	pull := (inst.basePrice - last) * 0.05
	price := last + step + pull
	bs.lastPrices[symbol] = price

	change := price - inst.basePrice
	changePercent := 0.0
	if inst.basePrice > 0 {
		changePercent = (change / inst.basePrice) * 100
	}

	return &models.Quote{
		Symbol:        symbol,
		Name:          inst.name,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		PreviousClose: inst.basePrice,
		Timestamp:     time.Now().UnixMilli(),
	}, nil
}

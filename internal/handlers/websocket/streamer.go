package websocket

import (
	"log"
	"time"

	"tradechallenge/internal/services"
	"tradechallenge/internal/types"
)

const defaultStreamInterval = 5 * time.Second

// QuoteStreamer periodically broadcasts quote ticks for a fixed symbol set to
// all connected clients. One streamer serves the whole hub; clients that want
// an immediate snapshot use quote_subscribe instead.
type QuoteStreamer struct {
	marketService services.MarketDataServiceInterface
	hub           *Hub
	symbols       []string
	interval      time.Duration
	stop          chan struct{}
}

// NewQuoteStreamer creates a streamer for the given symbols. A zero interval
// falls back to the default.
func NewQuoteStreamer(marketService services.MarketDataServiceInterface, hub *Hub, symbols []string, interval time.Duration) *QuoteStreamer {
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	return &QuoteStreamer{
		marketService: marketService,
		hub:           hub,
		symbols:       symbols,
		interval:      interval,
		stop:          make(chan struct{}),
	}
}

// Start begins the broadcast loop in its own goroutine.
func (qs *QuoteStreamer) Start() {
	go qs.run()
}

// Stop terminates the broadcast loop.
func (qs *QuoteStreamer) Stop() {
	close(qs.stop)
}

func (qs *QuoteStreamer) run() {
	ticker := time.NewTicker(qs.interval)
	defer ticker.Stop()

	log.Printf("Quote streamer started for %d symbols every %s", len(qs.symbols), qs.interval)

	for {
		select {
		case <-qs.stop:
			log.Println("Quote streamer stopped")
			return
		case <-ticker.C:
			qs.broadcastTick()
		}
	}
}

// broadcastTick pushes one quote update per symbol. Quotes come through the
// cache, so a tick does not hammer upstream sources.
func (qs *QuoteStreamer) broadcastTick() {
	if qs.hub.GetClientCount() == 0 {
		return
	}

	for _, quote := range qs.marketService.GetQuotes(qs.symbols) {
		qs.hub.BroadcastMessage(types.QuoteUpdate, types.QuoteUpdateData{
			Symbol:    quote.Symbol,
			Price:     quote.Price,
			Change:    quote.Change,
			Timestamp: quote.Timestamp,
		})
	}
}

package websocket

import (
	"encoding/json"

	"tradechallenge/internal/services"
	"tradechallenge/internal/types"
)

// QuoteSubscribeData is the payload of a quote_subscribe message.
type QuoteSubscribeData struct {
	Symbols []string `json:"symbols"`
}

// QuoteEventHandlerImpl answers quote subscription requests with an immediate
// snapshot for the requested symbols. Ongoing ticks come from the streamer
// broadcast, so there is no per-client subscription state to track.
type QuoteEventHandlerImpl struct {
	marketService services.MarketDataServiceInterface
}

// NewQuoteEventHandler creates a new quote event handler
func NewQuoteEventHandler(marketService services.MarketDataServiceInterface) *QuoteEventHandlerImpl {
	return &QuoteEventHandlerImpl{
		marketService: marketService,
	}
}

// HandleMessage handles quote subscription messages
func (h *QuoteEventHandlerImpl) HandleMessage(client *Client, message types.WebSocketMessage) error {
	switch message.Type {
	case types.QuoteSubscribe:
		return h.handleSubscribe(client, message.Data)
	default:
		client.SendError("Unknown quote message", string(message.Type))
		return nil
	}
}

// handleSubscribe sends the current quote for each requested symbol.
func (h *QuoteEventHandlerImpl) handleSubscribe(client *Client, data interface{}) error {
	dataBytes, _ := json.Marshal(data)
	var subscribeData QuoteSubscribeData
	if err := json.Unmarshal(dataBytes, &subscribeData); err != nil {
		client.SendError("Invalid subscribe data", err.Error())
		return nil
	}

	if len(subscribeData.Symbols) == 0 {
		client.SendError("Invalid subscribe data", "At least one symbol is required")
		return nil
	}

	quotes := h.marketService.GetQuotes(subscribeData.Symbols)
	for _, quote := range quotes {
		client.SendMessage(types.WebSocketMessage{
			Type: types.QuoteUpdate,
			Data: types.QuoteUpdateData{
				Symbol:    quote.Symbol,
				Price:     quote.Price,
				Change:    quote.Change,
				Timestamp: quote.Timestamp,
			},
		})
	}

	return nil
}

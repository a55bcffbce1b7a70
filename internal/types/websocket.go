package types

// MessageType defines the type of WebSocket message
type MessageType string

const (
	ConnectionStatus MessageType = "connection_status"
	Error            MessageType = "error"
	// Server push messages
	QuoteUpdate     MessageType = "quote_update"
	TradeOpened     MessageType = "trade_opened"
	TradeClosed     MessageType = "trade_closed"
	ChallengeUpdate MessageType = "challenge_update"
	// Client control messages
	QuoteSubscribe MessageType = "quote_subscribe"
)

// WebSocketMessage represents a WebSocket message
type WebSocketMessage struct {
	Type MessageType `json:"type"`
	Data interface{} `json:"data"`
}

// ConnectionStatusData represents connection status message data
type ConnectionStatusData struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// QuoteUpdateData represents a quote tick pushed to clients
type QuoteUpdateData struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	Timestamp int64   `json:"timestamp"`
}

package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// WebSocketHandler handles WebSocket connections and manages event routing
type WebSocketHandler struct {
	hub          *Hub
	quoteHandler QuoteEventHandler
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler() *WebSocketHandler {
	hub := NewHub()
	go hub.Run()

	return &WebSocketHandler{
		hub: hub,
	}
}

// SetQuoteHandler sets the handler for quote subscription messages
func (wh *WebSocketHandler) SetQuoteHandler(quoteHandler QuoteEventHandler) {
	wh.quoteHandler = quoteHandler
}

// HandleWebSocket upgrades HTTP connection to WebSocket and manages client
func (wh *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := NewClient(conn, wh.hub, wh.quoteHandler)

	// Register client and start processing
	wh.hub.RegisterClient(client)
	client.Start()
}

// GetHub returns the WebSocket hub for broadcasting messages
func (wh *WebSocketHandler) GetHub() *Hub {
	return wh.hub
}

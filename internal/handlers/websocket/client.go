package websocket

import (
	"encoding/json"
	"log"
	"net/http"

	"tradechallenge/internal/types"

	"github.com/gorilla/websocket"
)

// WebSocket upgrader with CORS settings
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development
		return true
	},
}

// Client represents a WebSocket client
type Client struct {
	Conn         *websocket.Conn
	Send         chan []byte
	Hub          *Hub
	ID           string
	QuoteHandler QuoteEventHandler
}

// QuoteEventHandler interface for handling quote subscription requests
type QuoteEventHandler interface {
	HandleMessage(client *Client, message types.WebSocketMessage) error
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *Hub, quoteHandler QuoteEventHandler) *Client {
	return &Client{
		Conn:         conn,
		Send:         make(chan []byte, 256),
		Hub:          hub,
		ID:           generateClientID(),
		QuoteHandler: quoteHandler,
	}
}

// readPump handles reading messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()

	// Set read deadline and pong handler for keep-alive
	c.Conn.SetReadLimit(512)
	c.Conn.SetPongHandler(func(string) error {
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for client %s: %v", c.ID, err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump handles writing messages to the WebSocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error for client %s: %v", c.ID, err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// Start starts the client's read and write pumps
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// handleMessage routes messages to appropriate handlers based on message type
func (c *Client) handleMessage(messageBytes []byte) {
	var message types.WebSocketMessage
	if err := json.Unmarshal(messageBytes, &message); err != nil {
		log.Printf("Error parsing message from client %s: %v", c.ID, err)
		c.SendError("Invalid message format", err.Error())
		return
	}

	switch message.Type {
	case types.QuoteSubscribe:
		if c.QuoteHandler != nil {
			if err := c.QuoteHandler.HandleMessage(c, message); err != nil {
				log.Printf("Quote handler error for client %s: %v", c.ID, err)
			}
		} else {
			c.SendError("Quote handler not available", "Internal error")
		}

	default:
		log.Printf("Unknown message type from client %s: %s", c.ID, message.Type)
		c.SendError("Unknown message type", string(message.Type))
	}
}

// SendError sends an error response to the client
func (c *Client) SendError(message, errorMsg string) {
	response := map[string]interface{}{
		"success": false,
		"message": message,
		"error":   errorMsg,
	}

	c.SendMessage(types.WebSocketMessage{
		Type: types.Error,
		Data: response,
	})
}

// SendMessage sends a WebSocket message to the client
func (c *Client) SendMessage(message types.WebSocketMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message for client %s: %v", c.ID, err)
		return
	}

	select {
	case c.Send <- data:
	default:
		log.Printf("Client %s send channel full, dropping message", c.ID)
	}
}

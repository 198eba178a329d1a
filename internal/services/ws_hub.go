package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Real-time event types pushed to clients.
const (
	EventNewMessage     = "new_message"
	EventReceiveMessage = "receive_message"
	EventMessageSent    = "message_sent"
	EventError          = "error"
)

// WSEvent is the frame exchanged over the real-time channel.
type WSEvent struct {
	Type    string          `json:"type"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewWSEvent builds an event frame, marshaling the payload.
func NewWSEvent(eventType string, payload any) (WSEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return WSEvent{}, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return WSEvent{Type: eventType, Data: data}, nil
}

// wsClient pairs a connection with its write lock. gorilla/websocket
// allows only one concurrent writer per connection; every outbound frame
// goes through writeMu.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub manages the WebSocket connections of this instance. Each user
// occupies a room keyed by their own user id; a later connection for the
// same user replaces the earlier one.
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*wsClient
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{connections: make(map[string]*wsClient)}
}

// Register registers a connection for a user, closing a previous one
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.conn.Close()
	}
	h.connections[userID] = &wsClient{conn: conn}

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes the connection for a user if it is still the one
// registered. It reports whether the connection was current, so a read
// loop that exited because a newer connection replaced it does not tear
// down the newer connection's presence.
func (h *WSHub) Unregister(userID string, conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.connections[userID]; ok && current.conn == conn {
		current.conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
		return true
	}
	return false
}

// SendToUser delivers an event to a locally connected user
func (h *WSHub) SendToUser(userID string, event WSEvent) error {
	h.mu.RLock()
	client, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := client.write(data); err != nil {
		h.Unregister(userID, client.conn)
		return fmt.Errorf("failed to send event: %w", err)
	}
	return nil
}

// IsOnline reports whether a user is connected to this instance
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

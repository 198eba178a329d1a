package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"
	"github.com/Jatin546/routebuddy-mobile-app/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is open on the HTTP surface as well
	},
}

// WebSocketHandler handles the real-time channel. A connected client
// occupies the room keyed by its own user id.
type WebSocketHandler struct {
	hub            *services.WSHub
	bus            *services.EventBus
	authService    *services.AuthService
	messageService *services.MessageService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *services.WSHub,
	bus *services.EventBus,
	authService *services.AuthService,
	messageService *services.MessageService,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		bus:            bus,
		authService:    authService,
		messageService: messageService,
	}
}

// HandleWebSocket handles GET /ws?token=
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	user, err := h.authService.ResolveSession(r.Context(), token)
	if err != nil {
		respondError(w, "unauthenticated", "Not authenticated", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(user.UserID, conn)
	h.bus.SetOnline(r.Context(), user.UserID)
	defer func() {
		// When a newer connection has replaced this one, the user is
		// still online; only the current connection clears presence.
		if h.hub.Unregister(user.UserID, conn) {
			h.bus.SetOffline(context.Background(), user.UserID)
		}
	}()

	log.Info().Str("user_id", user.UserID).Msg("WebSocket connection established")

	ctx := r.Context()
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", user.UserID).Msg("WebSocket error")
			}
			break
		}

		var event services.WSEvent
		if err := json.Unmarshal(frame, &event); err != nil {
			log.Error().Err(err).Str("user_id", user.UserID).Msg("Failed to parse WebSocket frame")
			h.sendError(user.UserID, "Invalid message format")
			continue
		}

		if err := h.handleEvent(ctx, user, event); err != nil {
			log.Error().Err(err).Str("user_id", user.UserID).Str("type", event.Type).Msg("Failed to handle event")
			h.sendError(user.UserID, err.Error())
		}
	}
}

func (h *WebSocketHandler) handleEvent(ctx context.Context, user *models.User, event services.WSEvent) error {
	switch event.Type {
	case "send_message":
		return h.handleSendMessage(ctx, user, event.Data)
	default:
		h.sendError(user.UserID, "Unknown message type")
		return nil
	}
}

type wsSendMessage struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

// handleSendMessage persists the message, fans receive_message out to the
// receiver's room and echoes message_sent to the sender.
func (h *WebSocketHandler) handleSendMessage(ctx context.Context, user *models.User, data json.RawMessage) error {
	var body wsSendMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}

	msg, err := h.messageService.Send(ctx, user, body.ReceiverID, body.Content)
	if err != nil {
		return err
	}

	if err := h.bus.Publish(ctx, body.ReceiverID, services.EventReceiveMessage, msg); err != nil {
		log.Error().Err(err).Str("message_id", msg.MessageID).Msg("Failed to publish receive_message")
	}

	echo, err := services.NewWSEvent(services.EventMessageSent, msg)
	if err != nil {
		return err
	}
	if err := h.hub.SendToUser(user.UserID, echo); err != nil {
		log.Error().Err(err).Str("user_id", user.UserID).Msg("Failed to echo message_sent")
	}
	return nil
}

func (h *WebSocketHandler) sendError(userID, message string) {
	if err := h.hub.SendToUser(userID, services.WSEvent{
		Type:    services.EventError,
		Message: message,
	}); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to send error event")
	}
}

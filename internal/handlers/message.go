package handlers

import (
	"net/http"

	"github.com/Jatin546/routebuddy-mobile-app/internal/middleware"
	"github.com/Jatin546/routebuddy-mobile-app/internal/services"

	"github.com/go-chi/chi/v5"
)

// MessageHandler handles messaging requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendBody is the body for POST /api/messages/send
type SendBody struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

// Send handles POST /api/messages/send
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req SendBody
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := h.messageService.Send(r.Context(), user, req.ReceiverID, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, msg)
}

// Conversation handles GET /api/messages/conversation/{other_user_id}
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	otherUserID := chi.URLParam(r, "other_user_id")

	msgs, err := h.messageService.Conversation(r.Context(), user.UserID, otherUserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, msgs)
}

// MarkRead handles POST /api/messages/mark-read/{other_user_id}
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	otherUserID := chi.URLParam(r, "other_user_id")

	if err := h.messageService.MarkRead(r.Context(), user.UserID, otherUserID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Messages marked as read"})
}

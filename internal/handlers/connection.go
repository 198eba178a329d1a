package handlers

import (
	"net/http"

	"github.com/Jatin546/routebuddy-mobile-app/internal/middleware"
	"github.com/Jatin546/routebuddy-mobile-app/internal/services"

	"github.com/rs/zerolog/log"
)

// ConnectionHandler handles connection handshake requests
type ConnectionHandler struct {
	connectionService *services.ConnectionService
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(connectionService *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

// RequestBody is the body for POST /api/connections/request
type RequestBody struct {
	TargetUserID string `json:"target_user_id"`
}

// Request handles POST /api/connections/request
func (h *ConnectionHandler) Request(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req RequestBody
	if !decodeBody(w, r, &req) {
		return
	}

	conn, err := h.connectionService.Request(r.Context(), user, req.TargetUserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", user.UserID).
		Str("target_user_id", req.TargetUserID).
		Str("connection_id", conn.ConnectionID).
		Msg("Connection requested")
	respondJSON(w, http.StatusOK, conn)
}

// RespondBody is the body for POST /api/connections/respond
type RespondBody struct {
	ConnectionID string `json:"connection_id"`
	Action       string `json:"action"` // "accept" or "reject"
}

// Respond handles POST /api/connections/respond
func (h *ConnectionHandler) Respond(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req RespondBody
	if !decodeBody(w, r, &req) {
		return
	}

	conn, err := h.connectionService.Respond(r.Context(), user.UserID, req.ConnectionID, req.Action)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("connection_id", conn.ConnectionID).
		Str("status", conn.Status).
		Msg("Connection responded")
	respondJSON(w, http.StatusOK, conn)
}

// List handles GET /api/connections/list
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	status := r.URL.Query().Get("status")

	conns, err := h.connectionService.List(r.Context(), user.UserID, status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, conns)
}

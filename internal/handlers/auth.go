package handlers

import (
	"net/http"
	"time"

	"github.com/Jatin546/routebuddy-mobile-app/internal/middleware"
	"github.com/Jatin546/routebuddy-mobile-app/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles session exchange, identity and logout
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// ExchangeSessionRequest is the body for POST /api/auth/exchange-session
type ExchangeSessionRequest struct {
	SessionID string `json:"session_id"`
}

// ExchangeSession handles POST /api/auth/exchange-session
func (h *AuthHandler) ExchangeSession(w http.ResponseWriter, r *http.Request) {
	var req ExchangeSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		respondError(w, "validation", "session_id required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.ExchangeSession(r.Context(), req.SessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    result.SessionToken,
		Path:     "/",
		MaxAge:   int(h.authService.SessionTTL() / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	log.Info().Str("user_id", result.UserID).Msg("Session exchanged")

	respondJSON(w, http.StatusOK, map[string]string{
		"session_token": result.SessionToken,
		"user_id":       result.UserID,
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, middleware.GetUser(r.Context()))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r)
	if err := h.authService.Logout(r.Context(), token); err != nil {
		respondServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

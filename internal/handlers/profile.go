package handlers

import (
	"net/http"

	"github.com/Jatin546/routebuddy-mobile-app/internal/middleware"
	"github.com/Jatin546/routebuddy-mobile-app/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile and verification requests
type ProfileHandler struct {
	userService *services.UserService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(userService *services.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

// Me handles GET /api/profile/me
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, middleware.GetUser(r.Context()))
}

// Update handles PUT /api/profile/update
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req services.ProfileUpdate
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.UserID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// VerifyIDRequest is the body for POST /api/profile/verify-id
type VerifyIDRequest struct {
	IDImage string `json:"id_image"`
}

// VerifyID handles POST /api/profile/verify-id
func (h *ProfileHandler) VerifyID(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req VerifyIDRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.userService.VerifyID(r.Context(), user.UserID, req.IDImage); err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", user.UserID).Msg("ID verification submitted")
	respondJSON(w, http.StatusOK, map[string]any{
		"message":  "ID verification submitted successfully",
		"verified": true,
	})
}

// Get handles GET /api/profile/{user_id}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	profile, err := h.userService.GetPublicProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// PushTokenRequest is the body for POST /api/profile/push-token
type PushTokenRequest struct {
	PushToken *string `json:"push_token"`
}

// SetPushToken handles POST /api/profile/push-token. A null token clears
// the registration.
func (h *ProfileHandler) SetPushToken(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req PushTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.userService.SetPushToken(r.Context(), user.UserID, req.PushToken); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Push token updated"})
}

package handlers

import (
	"net/http"

	"github.com/Jatin546/routebuddy-mobile-app/internal/middleware"
	"github.com/Jatin546/routebuddy-mobile-app/internal/services"
)

// DiscoveryHandler handles match discovery requests
type DiscoveryHandler struct {
	matchService *services.MatchService
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(matchService *services.MatchService) *DiscoveryHandler {
	return &DiscoveryHandler{matchService: matchService}
}

// Matches handles GET /api/discovery/matches
func (h *DiscoveryHandler) Matches(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	matches, err := h.matchService.Discover(r.Context(), user)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, matches)
}

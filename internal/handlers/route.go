package handlers

import (
	"net/http"

	"github.com/Jatin546/routebuddy-mobile-app/internal/middleware"
	"github.com/Jatin546/routebuddy-mobile-app/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// RouteHandler handles commute route CRUD requests
type RouteHandler struct {
	routeService *services.RouteService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeService *services.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// Create handles POST /api/routes/create
func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req services.RouteInput
	if !decodeBody(w, r, &req) {
		return
	}

	route, err := h.routeService.Create(r.Context(), user.UserID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", user.UserID).Str("route_id", route.RouteID).Msg("Route created")
	respondJSON(w, http.StatusOK, route)
}

// ListMine handles GET /api/routes/my-routes
func (h *RouteHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	routes, err := h.routeService.ListOwn(r.Context(), user.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, routes)
}

// Update handles PUT /api/routes/{route_id}
func (h *RouteHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	routeID := chi.URLParam(r, "route_id")

	var req services.RouteInput
	if !decodeBody(w, r, &req) {
		return
	}

	route, err := h.routeService.Update(r.Context(), user.UserID, routeID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, route)
}

// Delete handles DELETE /api/routes/{route_id}
func (h *RouteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	routeID := chi.URLParam(r, "route_id")

	if err := h.routeService.Delete(r.Context(), user.UserID, routeID); err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", user.UserID).Str("route_id", routeID).Msg("Route deleted")
	respondJSON(w, http.StatusOK, map[string]string{"message": "Route deleted successfully"})
}

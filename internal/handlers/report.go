package handlers

import (
	"net/http"

	"github.com/Jatin546/routebuddy-mobile-app/internal/middleware"
	"github.com/Jatin546/routebuddy-mobile-app/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles safety requests: reports, blocks, unblocks
type ReportHandler struct {
	reportService *services.ReportService
	userService   *services.UserService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService, userService *services.UserService) *ReportHandler {
	return &ReportHandler{reportService: reportService, userService: userService}
}

// CreateBody is the body for POST /api/reports/create
type CreateBody struct {
	ReportedUserID string  `json:"reported_user_id"`
	Reason         string  `json:"reason"`
	Details        *string `json:"details"`
}

// Create handles POST /api/reports/create
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req CreateBody
	if !decodeBody(w, r, &req) {
		return
	}

	report, err := h.reportService.Create(r.Context(), user.UserID, req.ReportedUserID, req.Reason, req.Details)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("reporter_id", user.UserID).
		Str("reported_user_id", req.ReportedUserID).
		Msg("Report filed")
	respondJSON(w, http.StatusOK, map[string]string{
		"message":   "Report submitted successfully",
		"report_id": report.ReportID,
	})
}

// Block handles POST /api/reports/block/{user_id}
func (h *ReportHandler) Block(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	targetID := chi.URLParam(r, "user_id")

	if err := h.userService.Block(r.Context(), user.UserID, targetID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User blocked successfully"})
}

// Unblock handles POST /api/reports/unblock/{user_id}
func (h *ReportHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	targetID := chi.URLParam(r, "user_id")

	if err := h.userService.Unblock(r.Context(), user.UserID, targetID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User unblocked successfully"})
}

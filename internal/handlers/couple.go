package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"duet-backend/internal/middleware"
	"duet-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// CoupleHandler handles couple-related HTTP requests
type CoupleHandler struct {
	coupleService *services.CoupleService
}

// NewCoupleHandler creates a new couple handler
func NewCoupleHandler(coupleService *services.CoupleService) *CoupleHandler {
	return &CoupleHandler{coupleService: coupleService}
}

// GetCouple handles GET /couple
func (h *CoupleHandler) GetCouple(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	view, err := h.coupleService.GetCoupleForUser(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"secretCode":      view.SecretCode,
		"partner1":        view.Partner1,
		"partner2":        view.Partner2,
		"nextMeetingDate": view.NextMeetingDate,
		"createdAt":       view.CreatedAt,
	})
}

type updateCoupleRequest struct {
	NextMeetingDate *time.Time `json:"nextMeetingDate"`
}

// UpdateCouple handles PATCH /couple
func (h *CoupleHandler) UpdateCouple(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req updateCoupleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.coupleService.UpdateNextMeeting(r.Context(), claims.UserID, req.NextMeetingDate)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", claims.UserID).
			Msg("Failed to update next meeting date")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", claims.UserID).
		Str("couple_id", view.ID).
		Msg("Next meeting date updated")

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "couple": view})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"duet-backend/internal/middleware"
	"duet-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// TimelineHandler handles timeline moment HTTP requests
type TimelineHandler struct {
	timelineService *services.TimelineService
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(timelineService *services.TimelineService) *TimelineHandler {
	return &TimelineHandler{timelineService: timelineService}
}

// GetMoments handles GET /timeline
func (h *TimelineHandler) GetMoments(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	moments, err := h.timelineService.List(r.Context(), claims)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, moments)
}

// CreateMoment handles POST /timeline
func (h *TimelineHandler) CreateMoment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req services.CreateMomentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	moment, err := h.timelineService.Create(r.Context(), claims, req)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to create moment")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, moment)
}

// UpdateMoment handles PATCH /timeline/{id}
func (h *TimelineHandler) UpdateMoment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	id := chi.URLParam(r, "id")

	var req services.UpdateMomentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	moment, err := h.timelineService.Update(r.Context(), claims, id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, moment)
}

// DeleteMoment handles DELETE /timeline/{id}
func (h *TimelineHandler) DeleteMoment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.timelineService.Delete(r.Context(), claims, id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"duet-backend/internal/middleware"
	"duet-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// EventHandler handles calendar event HTTP requests
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// GetEvents handles GET /events
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	events, err := h.eventService.List(r.Context(), claims)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "events": events})
}

type createEventRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event, err := h.eventService.Create(r.Context(), claims, req.Title, req.Date)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to create event")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", claims.UserID).
		Str("event_id", event.ID).
		Str("date", event.Date).
		Msg("Event created")

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "event": event})
}

// DeleteEvent handles DELETE /events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.eventService.Delete(r.Context(), claims, id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

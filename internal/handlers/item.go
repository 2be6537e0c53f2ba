package handlers

import (
	"encoding/json"
	"net/http"

	"duet-backend/internal/middleware"
	"duet-backend/internal/models"
	"duet-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// ItemHandler handles watch/listen list HTTP requests
type ItemHandler struct {
	itemService *services.ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// GetItems handles GET /items with an optional ?type= filter
func (h *ItemHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	itemType := models.ItemType(r.URL.Query().Get("type"))

	items, err := h.itemService.List(r.Context(), claims, itemType)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "items": items})
}

// CreateItem handles POST /items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req services.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.itemService.Create(r.Context(), claims, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "item": item})
}

type updateItemRequest struct {
	Status models.ItemStatus `json:"status"`
}

// UpdateItem handles PATCH /items/{id}. Only the status is mutable.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	id := chi.URLParam(r, "id")

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.itemService.UpdateStatus(r.Context(), claims, id, req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "item": item})
}

// DeleteItem handles DELETE /items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.itemService.Delete(r.Context(), claims, id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

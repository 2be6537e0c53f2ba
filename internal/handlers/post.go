package handlers

import (
	"encoding/json"
	"net/http"

	"duet-backend/internal/middleware"
	"duet-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PostHandler handles journal post HTTP requests
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// GetPosts handles GET /posts
func (h *PostHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	posts, err := h.postService.List(r.Context(), claims)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to list posts")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"posts":       posts,
		"currentUser": claims.UserID,
	})
}

// CreatePost handles POST /posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req services.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.postService.Create(r.Context(), claims, req)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to create post")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", claims.UserID).
		Str("post_id", post.ID).
		Msg("Post created")

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "post": post})
}

// UpdatePost handles PUT /posts/{id}
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	id := chi.URLParam(r, "id")

	var req services.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.postService.Update(r.Context(), claims, id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "post": post})
}

// DeletePost handles DELETE /posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.postService.Delete(r.Context(), claims, id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

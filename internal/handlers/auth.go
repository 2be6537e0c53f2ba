package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"duet-backend/internal/middleware"
	"duet-backend/internal/models"
	"duet-backend/internal/services"

	"github.com/rs/zerolog/log"
)

const oauthStateCookie = "oauth_state"

// AuthHandler handles registration, login and account linking
type AuthHandler struct {
	userService *services.UserService
	calendar    *services.CalendarService
	media       services.MediaSigner
	clientURL   string
	cookieTTL   time.Duration
	secureCooky bool
}

// NewAuthHandler creates a new auth handler. calendar may be nil when the
// Google OAuth client is not configured.
func NewAuthHandler(userService *services.UserService, calendar *services.CalendarService, media services.MediaSigner, clientURL string, cookieTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		calendar:    calendar,
		media:       media,
		clientURL:   clientURL,
		cookieTTL:   cookieTTL,
		secureCooky: secureCookies,
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCooky,
		SameSite: http.SameSiteLaxMode,
	})
}

type userResponse struct {
	Success    bool                 `json:"success"`
	User       models.PublicProfile `json:"user"`
	SecretCode string               `json:"secretCode,omitempty"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.userService.Register(r.Context(), req)
	if err != nil {
		log.Error().
			Err(err).
			Str("email", req.Email).
			Str("action", req.Action).
			Msg("Registration failed")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", result.User.ID).
		Str("action", req.Action).
		Msg("User registered")

	h.setSessionCookie(w, result.Token)
	respondJSON(w, http.StatusCreated, userResponse{
		Success:    true,
		User:       result.User.Profile(),
		SecretCode: result.SecretCode,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User logged in")

	h.setSessionCookie(w, token)
	respondJSON(w, http.StatusOK, userResponse{Success: true, User: user.Profile()})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCooky,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetMe handles GET /auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	user, err := h.userService.GetMe(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// SignUpload handles GET /auth/cloudinary-sign
func (h *AuthHandler) SignUpload(w http.ResponseWriter, r *http.Request) {
	folder := r.URL.Query().Get("folder")

	signature, err := h.media.SignUpload(r.Context(), folder)
	if err != nil {
		log.Error().Err(err).Str("folder", folder).Msg("Failed to sign upload")
		respondError(w, "Failed to sign upload", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, signature)
}

// GoogleLogin handles GET /auth/google
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.calendar == nil || !h.calendar.Enabled() {
		respondError(w, "Google OAuth is not configured", http.StatusNotFound)
		return
	}

	buf := make([]byte, 16)
	rand.Read(buf)
	state := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.secureCooky,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.calendar.AuthURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /auth/google/callback
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.calendar == nil || !h.calendar.Enabled() {
		respondError(w, "Google OAuth is not configured", http.StatusNotFound)
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.redirectWithError(w, r, "Authentication failed")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectWithError(w, r, "Authentication failed")
		return
	}

	profile, token, err := h.calendar.Exchange(r.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("Google code exchange failed")
		h.redirectWithError(w, r, "Authentication failed")
		return
	}

	var refresh *string
	if token.RefreshToken != "" {
		refresh = &token.RefreshToken
	}
	user, err := h.userService.LinkGoogleAccount(r.Context(), profile.ID, profile.Email, &token.AccessToken, refresh)
	if err != nil {
		log.Error().Err(err).Str("google_email", profile.Email).Msg("Failed to link Google account")
		h.redirectWithError(w, r, "User not found. Please register first.")
		return
	}

	log.Info().Str("user_id", user.ID).Msg("Google Calendar connected")

	session, err := h.userService.IssueToken(user)
	if err == nil {
		h.setSessionCookie(w, session)
	}
	http.Redirect(w, r, h.clientURL+"/dashboard?success=calendar_connected", http.StatusTemporaryRedirect)
}

func (h *AuthHandler) redirectWithError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, h.clientURL+"/dashboard?error="+url.QueryEscape(message), http.StatusTemporaryRedirect)
}

// GoogleStatus handles GET /auth/google-status
func (h *AuthHandler) GoogleStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	status, err := h.userService.GetGoogleStatus(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

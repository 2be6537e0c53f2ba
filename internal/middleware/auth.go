package middleware

import (
	"context"
	"net/http"
	"strings"

	"duet-backend/internal/services"
)

type contextKey string

const claimsKey contextKey = "claims"

// SessionCookieName is the cookie the session token travels in
const SessionCookieName = "token"

// AuthMiddleware verifies the session token and stores its claims in the
// request context. The token is accepted from the session cookie or a
// Bearer authorization header, interchangeably.
func AuthMiddleware(userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				respondError(w, "Not authorized, no token", http.StatusUnauthorized)
				return
			}

			claims, err := userService.VerifyToken(token)
			if err != nil {
				respondError(w, "Not authorized, token failed", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the session token from the cookie or the
// Authorization header
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// GetClaims extracts the verified session claims from the context
func GetClaims(ctx context.Context) *services.Claims {
	claims, ok := ctx.Value(claimsKey).(*services.Claims)
	if !ok {
		return nil
	}
	return claims
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

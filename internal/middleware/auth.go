package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"
	"github.com/Jatin546/routebuddy-mobile-app/internal/services"
)

type contextKey string

const userKey contextKey = "user"

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "session_token"

// SessionToken extracts the session token from a request: the cookie
// first, then an Authorization bearer header.
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// RequireAuth resolves the session token to a user and rejects the
// request when no valid unexpired session exists.
func RequireAuth(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authService.ResolveSession(r.Context(), SessionToken(r))
			if err != nil {
				respondUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser extracts the authenticated user from context
func GetUser(ctx context.Context) *models.User {
	user, ok := ctx.Value(userKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

func respondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"unauthenticated","message":"Not authenticated"}}`))
}

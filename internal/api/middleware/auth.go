package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskhub/internal/api/shared"
	"github.com/mwhitlock/taskhub/internal/redact"
	"github.com/mwhitlock/taskhub/internal/service/auth"
)

// AuthMiddleware guards routes behind bearer-token authentication.
type AuthMiddleware struct {
	sessions auth.SessionService
}

// NewAuthMiddleware creates an AuthMiddleware backed by the given session
// service.
func NewAuthMiddleware(sessions auth.SessionService) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate resolves the Authorization bearer token to a user and stores
// both the user ID and the raw token in the request context. Requests with a
// missing, malformed, or revoked token are rejected with 401. Failures of
// the session backend itself surface as 500, not 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}
		token := parts[1]

		userID, err := m.sessions.Resolve(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}
			slog.Error("failed to resolve session token", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
		ctx = context.WithValue(ctx, shared.AuthTokenContextKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the authenticated user's ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// GetAuthToken extracts the raw bearer token the request authenticated with.
func GetAuthToken(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(shared.AuthTokenContextKey).(string)
	return token, ok && token != ""
}

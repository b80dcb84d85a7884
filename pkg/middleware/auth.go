package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKeyType string

const (
	userIDKey       contextKeyType = "user_id"
	sessionTokenKey contextKeyType = "session_token"
)

// Session represents an authenticated end-user session resolved by the auth
// middleware from an opaque bearer token.
type Session struct {
	UserID string
	Token  string
}

// SessionValidator resolves an opaque session token to a Session. It is
// context-aware because validation requires a session-store lookup.
// The gateway injects its own implementation backed by the session repository.
type SessionValidator func(ctx context.Context, token string) (*Session, error)

// Auth middleware validates opaque session tokens and injects the resolved
// session into the request context. Requests without a valid token are
// rejected with 401 before the handler runs.
func Auth(validate SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeAuthError(w, "invalid authorization header format")
				return
			}

			session, err := validate(r.Context(), parts[1])
			if err != nil {
				writeAuthError(w, "invalid or expired session token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, session.UserID)
			ctx = context.WithValue(ctx, sessionTokenKey, session.Token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// SessionTokenFromContext extracts the session token the request was
// authenticated with. Logout uses it to delete the right session.
func SessionTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(sessionTokenKey).(string); ok {
		return token
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

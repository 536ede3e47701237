package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "user_id"
const isAdminKey contextKey = "is_admin"

// UserIDFromContext returns the authenticated user ID, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok
}

// WithUserID stores the user ID in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithIsAdmin stores the admin flag in the context.
func WithIsAdmin(ctx context.Context, isAdmin bool) context.Context {
	return context.WithValue(ctx, isAdminKey, isAdmin)
}

// IsAdminFromContext reports whether the authenticated user is an admin.
// Returns false when not set.
func IsAdminFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(isAdminKey).(bool)
	return v
}

// RoleChecker resolves whether a user holds the admin role. Implemented by
// the user repository's user_roles lookup.
type RoleChecker interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
}

// RequireAuth validates the session cookie and sets userID plus the admin
// flag on the request context.
func RequireAuth(sessionSecret []byte, roles RoleChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName())
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}

			userID, err := VerifySessionToken(cookie.Value, sessionSecret)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_session"})
				return
			}

			isAdmin := false
			if roles != nil {
				// Lookup failure degrades to non-admin rather than 500.
				isAdmin, _ = roles.HasRole(r.Context(), userID, "admin")
			}

			ctx := WithUserID(r.Context(), userID)
			ctx = WithIsAdmin(ctx, isAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose context lacks the admin flag. Must be
// wrapped inside RequireAuth (or DevAuth).
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdminFromContext(r.Context()) {
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// DevUserID is the dummy user ID used when AUTH_REQUIRED=false.
const DevUserID = "dev-user-id"

// DevAuth sets a dummy admin identity on the context, for local development.
func DevAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithUserID(r.Context(), DevUserID)
		ctx = WithIsAdmin(ctx, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

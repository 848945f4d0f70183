package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
// A package-private key type means only this package can read or write the
// userID value in a request context — no collisions with other packages.
type contextKey string

const userIDKey contextKey = "userID"

// CookieName is the cookie the session token travels in. The handler sets it
// on login and clears it on signout; this middleware reads it back.
const CookieName = "jwt"

// RequireAuth is a middleware that enforces authentication on protected
// routes.
//
// It reads the session token from the "jwt" HttpOnly cookie, verifies it,
// and stores the userID in the request context. A missing, malformed,
// tampered, or expired token all produce the same 401 — per the taxonomy,
// token verification is all-or-nothing and the response never says which
// check failed.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"authorization required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) if the request carried no valid token.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID reads the session cookie and verifies it.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err
	}

	return tokens.Verify(cookie.Value)
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is unexported so no other package can read or overwrite the
// user id stored by this package.
type contextKey string

const userIDKey contextKey = "userID"

// TokenCookie is the cookie checked when no Authorization header is sent.
const TokenCookie = "token"

var errNoToken = errors.New("auth: no token")

// UserLookup reports whether userID still names an account. Tokens outlive
// the rows they were issued for.
type UserLookup func(ctx context.Context, userID int64) (bool, error)

// RequireAuth rejects requests without a valid token with 401 and stores the
// authenticated user id in the request context otherwise. When exists is
// non-nil, a token whose user is gone is also a 401; a failing lookup is a
// 500.
func RequireAuth(tokens *TokenService, exists UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				unauthorized(w, "valid authentication required")
				return
			}

			if exists != nil {
				ok, err := exists(r.Context(), userID)
				if err != nil {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"internal_error","message":"An internal error occurred"}` + "\n"))
					return
				}
				if !ok {
					unauthorized(w, "invalid token")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"` + message + `"}` + "\n"))
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the user id set by RequireAuth.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// extractUserID prefers the Authorization header and falls back to the cookie.
func extractUserID(r *http.Request, tokens *TokenService) (int64, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return 0, errNoToken
		}
		return tokens.Validate(strings.TrimSpace(token))
	}

	cookie, err := r.Cookie(TokenCookie)
	if err != nil {
		return 0, errNoToken
	}
	return tokens.Validate(cookie.Value)
}

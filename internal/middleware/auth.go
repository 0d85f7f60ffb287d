// Package middleware provides the HTTP middleware chain: bearer-token
// authentication, per-client rate limiting, and request IDs.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"dealdesk/internal/domain"
	"dealdesk/internal/service"
)

// Authenticate parses the Authorization bearer token and stores the caller's
// identity in the request context. Requests without a valid access token get
// a 401 JSON response.
func Authenticate(tokens *service.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeAuthError(w, "provide a bearer access token")
				return
			}

			claims, err := tokens.Verify(strings.TrimPrefix(auth, "Bearer "), "access")
			if err != nil {
				writeAuthError(w, err.Error())
				return
			}

			role, err := domain.ParseUserRole(claims.Role)
			if err != nil {
				writeAuthError(w, "invalid or expired token")
				return
			}

			ident := domain.Identity{
				UserID:         claims.Subject,
				OrganizationID: claims.OrganizationID,
				Email:          claims.Email,
				Role:           role,
			}
			next.ServeHTTP(w, r.WithContext(domain.WithIdentity(r.Context(), ident)))
		})
	}
}

// RequireAdmin rejects non-admin callers. It must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := domain.IdentityFromContext(r.Context())
		if !ok {
			writeAuthError(w, "provide a bearer access token")
			return
		}
		if !ident.IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"code":    http.StatusForbidden,
				"message": "admin role required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}

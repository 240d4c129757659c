package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/manaworks/jobportal/internal/model"
)

type contextKeyAuth string

// AdminIDKey is the context key for the authenticated admin id.
const AdminIDKey contextKeyAuth = "admin_id"

// TokenVerifier resolves a session token to an admin id.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// RequireAdmin returns an HTTP middleware that admits only requests carrying
// a live session token, taken from the "token" query parameter or an
// "Authorization: Bearer" header. The admin id is attached to the request
// context. Every failure is the same generic 401.
func RequireAdmin(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID, err := verifier.Verify(TokenFromRequest(r))
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), AdminIDKey, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest extracts the session token. The query parameter wins over
// the Authorization header.
func TokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// GetAdminID extracts the authenticated admin id from the context.
func GetAdminID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(AdminIDKey).(int64)
	return id, ok
}

// WriteError writes the standard JSON error envelope. It lives here rather
// than in the handler package so middleware can use it without a cycle.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: model.ErrorDetail{Code: status, Message: message},
	})
}

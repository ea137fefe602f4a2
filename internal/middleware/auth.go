package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"secure-file-share/internal/access"
	"secure-file-share/internal/model"
)

type tokenValidator interface {
	ValidateSessionToken(tokenString string) (*model.SessionClaims, error)
}

// ActivityRecorder is notified on every authenticated request so the
// live stats endpoint can report active users.
type ActivityRecorder interface {
	Touch(userID string)
}

type contextKey string

const sessionClaimsContextKey contextKey = "session_claims"

type AuthMiddleware struct {
	validator tokenValidator
	activity  ActivityRecorder
}

func NewAuthMiddleware(validator tokenValidator, activity ActivityRecorder) *AuthMiddleware {
	return &AuthMiddleware{validator: validator, activity: activity}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeDenied(w, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}

		token := strings.TrimSpace(header[7:])
		claims, err := m.validator.ValidateSessionToken(token)
		if err != nil {
			writeDenied(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		if m.activity != nil {
			m.activity.Touch(claims.UserID)
		}

		ctx := context.WithValue(r.Context(), sessionClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireOperation consults the access gate for the operation. Runs
// after RequireAuth; a deny is always an explicit 403.
func (m *AuthMiddleware) RequireOperation(op access.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeDenied(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !access.Allowed(claims.Role, op) {
				writeDenied(w, http.StatusForbidden, "operation not permitted for this role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*model.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionClaimsContextKey).(*model.SessionClaims)
	return claims, ok
}

func writeDenied(w http.ResponseWriter, status int, message string) {
	code := "UNAUTHORIZED"
	if status == http.StatusForbidden {
		code = "FORBIDDEN"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}

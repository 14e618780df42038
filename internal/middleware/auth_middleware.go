package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mediconnect/admin/internal/logging"
	"github.com/mediconnect/admin/internal/service"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

type ctxKey int

const adminIDKey ctxKey = iota

// AdminID returns the authenticated admin, if any.
func AdminID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(adminIDKey).(uuid.UUID)
	return id, ok
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		id, err := m.auth.Authenticate(r.Context(), strings.TrimSpace(parts[1]))
		switch {
		case err == nil:
		case errors.Is(err, service.ErrUnauthenticated):
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		case errors.Is(err, service.ErrForbidden):
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		default:
			logging.From(r.Context()).WithError(err).Error("Failed to authenticate request")
			writeError(w, http.StatusInternalServerError, "Failed to authenticate request")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminIDKey, id)))
	})
}

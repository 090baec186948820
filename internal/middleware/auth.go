package middleware

import (
	"context"
	"net/http"
	"strings"

	"equipment-inventory-api/internal/model"
	"equipment-inventory-api/pkg/api"
	"equipment-inventory-api/pkg/contextkeys"

	"go.uber.org/zap"
)

// TokenCookie is the cookie set at login.
const TokenCookie = "token"

// Authenticator resolves a raw token to the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Identity, error)
}

// AuthMiddleware rejects requests without a valid session token
type AuthMiddleware struct {
	auth   Authenticator
	logger *zap.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(auth Authenticator, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{auth: auth, logger: logger}
}

// Authenticate resolves the caller and stores the identity in the request
// context. Failures answer 401 before the wrapped handler runs.
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := am.auth.Authenticate(r.Context(), extractToken(r))
		if err != nil {
			am.logger.Debug("authentication failed",
				zap.String("path", r.URL.Path),
				zap.String("client_ip", ClientIP(r.Context())),
				zap.Error(err))
			api.FromError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), contextkeys.IdentityKey, *identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the caller stored by Authenticate.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(contextkeys.IdentityKey).(model.Identity)
	return identity, ok
}

// extractToken reads "Authorization: Bearer <token>" and falls back to
// the login cookie.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

package middleware

import (
	"net/http"

	"github.com/platinummonkey/warden/pkg/auth"
	"github.com/platinummonkey/warden/pkg/contextkeys"
	"github.com/platinummonkey/warden/pkg/httputil"
	"github.com/platinummonkey/warden/pkg/observability"
)

// AuthMiddleware verifies bearer tokens and places the resulting identity
// claims on the request context.
type AuthMiddleware struct {
	tokenManager *auth.TokenManager
	optional     bool // If true, allow requests without a token
}

// NewAuthMiddleware creates a new authentication middleware. With optional
// set, requests without an Authorization header pass through without
// claims; a present but invalid token is still rejected.
func NewAuthMiddleware(tokenManager *auth.TokenManager, optional bool) *AuthMiddleware {
	return &AuthMiddleware{
		tokenManager: tokenManager,
		optional:     optional,
	}
}

// Handler wraps an HTTP handler with token verification
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			httputil.WriteUnauthorized(w, auth.ErrMissingToken.Error())
			return
		}

		token, err := auth.ExtractBearer(header)
		if err != nil {
			httputil.WriteUnauthorized(w, err.Error())
			return
		}

		claims, err := m.tokenManager.Verify(token)
		if err != nil {
			httputil.WriteUnauthorized(w, auth.ErrInvalidToken.Error())
			return
		}

		ctx := contextkeys.WithClaims(r.Context(), claims)
		ctx = observability.WithUserID(ctx, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

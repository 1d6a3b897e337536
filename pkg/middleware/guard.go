package middleware

import (
	"errors"
	"net/http"

	"github.com/platinummonkey/warden/pkg/auth"
	"github.com/platinummonkey/warden/pkg/contextkeys"
	"github.com/platinummonkey/warden/pkg/httputil"
)

// RequireAccess creates middleware that enforces a role/privilege
// requirement against the claims placed on the context by AuthMiddleware.
// A zero requirement only demands an authenticated caller.
func RequireAccess(req auth.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := contextkeys.Claims(r.Context())
			if err := auth.Authorize(claims, req); err != nil {
				if errors.Is(err, auth.ErrUnauthorized) {
					httputil.WriteUnauthorized(w, err.Error())
					return
				}
				httputil.WriteForbidden(w, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

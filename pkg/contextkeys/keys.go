// Package contextkeys defines shared context keys so that middleware and
// handlers agree on where authenticated identity lives without import cycles.
package contextkeys

import (
	"context"

	"github.com/platinummonkey/warden/pkg/auth"
)

// Key is the private type used for all Warden context keys
type Key int

const (
	// ClaimsKey holds the verified *auth.IdentityClaims for the request
	ClaimsKey Key = iota
)

// WithClaims returns a context carrying the verified identity claims
func WithClaims(ctx context.Context, claims *auth.IdentityClaims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// Claims retrieves the verified identity claims, or nil when the request
// carried no valid token.
func Claims(ctx context.Context) *auth.IdentityClaims {
	claims, ok := ctx.Value(ClaimsKey).(*auth.IdentityClaims)
	if !ok {
		return nil
	}
	return claims
}

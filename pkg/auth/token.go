package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL matches the fixed expiry the login flow has always used
const DefaultTokenTTL = 3600 * time.Second

// TokenManager issues and verifies signed access tokens against a single
// process-wide secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a manager with the provided secret and token lifetime
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the configured token lifetime
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// tokenClaims is the JWT payload: registered claims plus the identity
// object under the "user" key.
type tokenClaims struct {
	User IdentityClaims `json:"user"`
	jwt.RegisteredClaims
}

// Issue signs a token embedding the identity claims with the fixed expiry
func (m *TokenManager) Issue(identity IdentityClaims) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		User: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Any parse, signature, or expiry failure maps to ErrInvalidToken.
func (m *TokenManager) Verify(token string) (*IdentityClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return &claims.User, nil
}

// ExtractBearer pulls the token out of an Authorization header value.
// The header must be exactly "Bearer <token>"; anything else is
// ErrMissingToken.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrMissingToken
	}
	return parts[1], nil
}

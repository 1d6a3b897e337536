package auth

import "errors"

var (
	// ErrMissingToken indicates the Authorization header was absent or not
	// a well-formed "Bearer <token>" pair.
	ErrMissingToken = errors.New("no token provided")

	// ErrInvalidToken indicates a signature mismatch, malformed payload,
	// or expired token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidCredentials indicates a failed login. Unknown email and
	// wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized indicates a request reached a gated route with no
	// verified claims.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInsufficientRole indicates the claims carry none of the required roles
	ErrInsufficientRole = errors.New("forbidden: insufficient role")

	// ErrInsufficientPrivilege indicates the claims carry none of the
	// required privileges.
	ErrInsufficientPrivilege = errors.New("forbidden: insufficient privilege")
)

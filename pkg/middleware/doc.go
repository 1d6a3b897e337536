// Package middleware provides HTTP middleware for the warden API: bearer
// token authentication, per-route role/privilege guards, request logging
// with request IDs, and CORS handling.
package middleware

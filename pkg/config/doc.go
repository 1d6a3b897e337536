// Package config loads application configuration from WARDEN_* environment
// variables: HTTP server settings, storage backend selection, JWT signing
// parameters, observability options, and the per-route access guard table.
package config

// Package observability provides structured logging, Prometheus metrics,
// and health check endpoints for the Warden directory service.
//
// Logging is built on stdlib slog with JSON output. Metrics cover the HTTP
// surface (request counts, latencies, sizes) plus directory operation
// counters. Health checks expose liveness and readiness probes; readiness
// pings the storage backend.
package observability

// Package api implements the HTTP surface of warden: the versioned REST
// routes for tenants, organizations, legal entities, users, roles, and
// privileges, the login endpoint, and the health and metrics endpoints.
// Every response uses the uniform {success, data, total, page, limit,
// message} envelope.
package api

// Package directory implements the entity repositories and list query
// composition at the core of Warden: CRUD over tenants, organizations,
// legal entities, users, roles, and privileges, backed by a pluggable
// document store.
//
// Entities are handled as JSON documents throughout so that create and
// update keep the original merge semantics. A per-entity descriptor drives
// required-field validation, uniqueness checks, reference validation, and
// relation expansion uniformly across all six resources; nothing is
// hand-rolled per endpoint.
//
// Reference fields are stored as bare ids and expanded to {id, name}
// projections on every read, never the full referenced document.
package directory

package directory

import (
	"context"
	"time"
)

// Collection names used by every Store implementation
const (
	CollectionTenants       = "tenants"
	CollectionOrganizations = "organizations"
	CollectionLegalEntities = "legal_entities"
	CollectionUsers         = "users"
	CollectionRoles         = "roles"
	CollectionPrivileges    = "privileges"
)

// Collections lists every collection a Store must serve
var Collections = []string{
	CollectionTenants,
	CollectionOrganizations,
	CollectionLegalEntities,
	CollectionUsers,
	CollectionRoles,
	CollectionPrivileges,
}

// Document is a stored entity. Reference fields hold bare id strings (or
// arrays of them); timestamps are fixed-width UTC strings so lexicographic
// order matches chronological order.
type Document = map[string]interface{}

// TimeLayout is the timestamp format used in stored documents. The fixed
// millisecond width keeps string comparison consistent with time order.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime renders a timestamp in the stored document format
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Query selects and pages documents within one collection
type Query struct {
	// Filter is an exact-match conjunction over top-level string fields
	Filter map[string]string
	// SortField orders results by a top-level string field
	SortField string
	// SortDesc reverses the order
	SortDesc bool
	// Skip and Limit page the result. Limit <= 0 means no limit.
	Skip  int
	Limit int
}

// Store is the document-store port every backend implements. Find returns
// the page of matching documents together with the total match count,
// computed against the same filter in one consistent read.
//
// A single Insert/Replace/Delete is atomic; there are no multi-document
// transactions.
type Store interface {
	Insert(ctx context.Context, collection, id string, doc Document) error
	FindByID(ctx context.Context, collection, id string) (Document, error)
	Find(ctx context.Context, collection string, q Query) ([]Document, int, error)
	Replace(ctx context.Context, collection, id string, doc Document) error
	Delete(ctx context.Context, collection, id string) (Document, error)
	Ping(ctx context.Context) error
}

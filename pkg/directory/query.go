package directory

import (
	"net/url"
	"strconv"
)

const (
	// DefaultPage is used when the page parameter is absent or not numeric
	DefaultPage = 1
	// DefaultLimit is used when the limit parameter is absent or not numeric
	DefaultLimit = 10
	// DefaultSortField orders collections newest-first by creation time
	DefaultSortField = "created_at"
)

// ListQuery is the composed collection query applied uniformly across all
// repositories: pagination, exact-match reference filters, and sort.
type ListQuery struct {
	Page      int
	Limit     int
	Filter    map[string]string
	SortField string
	SortDesc  bool
}

// NewListQuery returns the defaults: page 1, limit 10, newest-first
func NewListQuery() ListQuery {
	return ListQuery{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		Filter:    map[string]string{},
		SortField: DefaultSortField,
		SortDesc:  true,
	}
}

// Offset computes the skip count. Page is clamped before this is called,
// so the result is never negative.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ParseListQuery composes a ListQuery from raw query string values for a
// resource. Coercion is deliberately lenient and identical for every
// resource: non-numeric page/limit fall back to the defaults, and values
// below 1 are clamped to 1. Only the resource's declared reference fields
// are accepted as filters; anything else is ignored.
func ParseListQuery(resource string, values url.Values) (ListQuery, error) {
	spec, err := lookupSpec(resource)
	if err != nil {
		return ListQuery{}, err
	}

	q := NewListQuery()
	q.Page = coerceInt(values.Get("page"), DefaultPage)
	q.Limit = coerceInt(values.Get("limit"), DefaultLimit)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 1
	}

	for _, field := range spec.filterable {
		if v := values.Get(field); v != "" {
			q.Filter[field] = v
		}
	}

	if sort := values.Get("sort"); sort != "" {
		q.SortField = sort
		q.SortDesc = false
	}
	switch values.Get("order") {
	case "desc":
		q.SortDesc = true
	case "asc":
		q.SortDesc = false
	}

	return q, nil
}

// coerceInt parses a query-string integer, falling back to the default on
// any non-numeric input.
func coerceInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

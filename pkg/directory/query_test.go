package directory

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListQuery_Defaults(t *testing.T) {
	q, err := ParseListQuery(ResourceUsers, url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Empty(t, q.Filter)
	assert.Equal(t, "created_at", q.SortField)
	assert.True(t, q.SortDesc)
	assert.Equal(t, 0, q.Offset())
}

func TestParseListQuery_Coercion(t *testing.T) {
	tests := []struct {
		name      string
		values    url.Values
		wantPage  int
		wantLimit int
	}{
		{name: "numeric", values: url.Values{"page": {"3"}, "limit": {"25"}}, wantPage: 3, wantLimit: 25},
		{name: "non-numeric falls back", values: url.Values{"page": {"abc"}, "limit": {"x"}}, wantPage: 1, wantLimit: 10},
		{name: "zero clamps to one", values: url.Values{"page": {"0"}, "limit": {"0"}}, wantPage: 1, wantLimit: 1},
		{name: "negative clamps to one", values: url.Values{"page": {"-5"}, "limit": {"-2"}}, wantPage: 1, wantLimit: 1},
		{name: "float is not numeric", values: url.Values{"page": {"1.5"}}, wantPage: 1, wantLimit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseListQuery(ResourceUsers, tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
		})
	}
}

func TestParseListQuery_Offset(t *testing.T) {
	q, err := ParseListQuery(ResourceUsers, url.Values{"page": {"4"}, "limit": {"10"}})
	require.NoError(t, err)
	assert.Equal(t, 30, q.Offset())
}

func TestParseListQuery_FilterWhitelist(t *testing.T) {
	q, err := ParseListQuery(ResourceUsers, url.Values{
		"tenant":       {"t1"},
		"organization": {"o1"},
		"email":        {"sneaky@example.com"},
		"password":     {"x"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"tenant": "t1", "organization": "o1"}, q.Filter)
}

func TestParseListQuery_TenantsHaveNoFilters(t *testing.T) {
	q, err := ParseListQuery(ResourceTenants, url.Values{"tenant": {"t1"}})
	require.NoError(t, err)
	assert.Empty(t, q.Filter)
}

func TestParseListQuery_SortOverride(t *testing.T) {
	q, err := ParseListQuery(ResourceUsers, url.Values{"sort": {"name"}})
	require.NoError(t, err)
	assert.Equal(t, "name", q.SortField)
	assert.False(t, q.SortDesc)

	q, err = ParseListQuery(ResourceUsers, url.Values{"sort": {"name"}, "order": {"desc"}})
	require.NoError(t, err)
	assert.True(t, q.SortDesc)
}

func TestParseListQuery_UnknownResource(t *testing.T) {
	_, err := ParseListQuery("widgets", url.Values{})
	assert.Error(t, err)
}

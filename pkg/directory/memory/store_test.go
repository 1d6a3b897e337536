package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/warden/pkg/directory"
)

func TestStore_InsertAndFindByID(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	doc := directory.Document{"id": "t1", "name": "Acme", "created_at": "2025-01-01T00:00:00.000Z"}
	require.NoError(t, store.Insert(ctx, directory.CollectionTenants, "t1", doc))

	got, err := store.FindByID(ctx, directory.CollectionTenants, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got["name"])

	// Mutating the returned copy must not affect stored state.
	got["name"] = "changed"
	again, err := store.FindByID(ctx, directory.CollectionTenants, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", again["name"])
}

func TestStore_InsertDuplicateID(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, directory.CollectionRoles, "r1", directory.Document{"id": "r1"}))
	err := store.Insert(ctx, directory.CollectionRoles, "r1", directory.Document{"id": "r1"})
	assert.Error(t, err)
}

func TestStore_FindByIDNotFound(t *testing.T) {
	store := NewStore()

	_, err := store.FindByID(context.Background(), directory.CollectionUsers, "missing")
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestStore_UnknownCollection(t *testing.T) {
	store := NewStore()

	err := store.Insert(context.Background(), "widgets", "w1", directory.Document{})
	assert.Error(t, err)
}

func TestStore_FindFilterSortAndPage(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seed := []directory.Document{
		{"id": "u1", "name": "Alice", "tenant": "t1", "created_at": "2025-01-01T00:00:00.000Z"},
		{"id": "u2", "name": "Bob", "tenant": "t1", "created_at": "2025-01-02T00:00:00.000Z"},
		{"id": "u3", "name": "Carol", "tenant": "t2", "created_at": "2025-01-03T00:00:00.000Z"},
		{"id": "u4", "name": "Dave", "tenant": "t1", "created_at": "2025-01-04T00:00:00.000Z"},
	}
	for _, doc := range seed {
		require.NoError(t, store.Insert(ctx, directory.CollectionUsers, doc["id"].(string), doc))
	}

	docs, total, err := store.Find(ctx, directory.CollectionUsers, directory.Query{
		Filter:    map[string]string{"tenant": "t1"},
		SortField: "created_at",
		SortDesc:  true,
		Skip:      0,
		Limit:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total, "total counts all matches, not just the page")
	require.Len(t, docs, 2)
	assert.Equal(t, "u4", docs[0]["id"], "newest first")
	assert.Equal(t, "u2", docs[1]["id"])

	// Second page holds the remainder, total unchanged.
	docs, total, err = store.Find(ctx, directory.CollectionUsers, directory.Query{
		Filter:    map[string]string{"tenant": "t1"},
		SortField: "created_at",
		SortDesc:  true,
		Skip:      2,
		Limit:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, docs, 1)
	assert.Equal(t, "u1", docs[0]["id"])
}

func TestStore_FindSkipPastEnd(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, directory.CollectionTenants, "t1", directory.Document{"id": "t1"}))

	docs, total, err := store.Find(ctx, directory.CollectionTenants, directory.Query{Skip: 50, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, docs)
}

func TestStore_FindNoLimitReturnsAll(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for _, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, store.Insert(ctx, directory.CollectionPrivileges, id, directory.Document{"id": id, "name": id}))
	}

	docs, total, err := store.Find(ctx, directory.CollectionPrivileges, directory.Query{SortField: "name"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, docs, 3)
}

func TestStore_Replace(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, directory.CollectionRoles, "r1", directory.Document{"id": "r1", "name": "Viewer"}))

	require.NoError(t, store.Replace(ctx, directory.CollectionRoles, "r1", directory.Document{"id": "r1", "name": "Editor"}))

	got, err := store.FindByID(ctx, directory.CollectionRoles, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Editor", got["name"])

	err = store.Replace(ctx, directory.CollectionRoles, "missing", directory.Document{"id": "missing"})
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, directory.CollectionOrganizations, "o1", directory.Document{"id": "o1", "name": "Eng"}))

	prior, err := store.Delete(ctx, directory.CollectionOrganizations, "o1")
	require.NoError(t, err)
	assert.Equal(t, "Eng", prior["name"])

	_, err = store.FindByID(ctx, directory.CollectionOrganizations, "o1")
	assert.ErrorIs(t, err, directory.ErrNotFound)

	_, err = store.Delete(ctx, directory.CollectionOrganizations, "o1")
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestStore_Ping(t *testing.T) {
	assert.NoError(t, NewStore().Ping(context.Background()))
}

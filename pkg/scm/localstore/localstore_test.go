package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdot65/scmsync/pkg/scm"
	"github.com/cdot65/scmsync/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func webIdentity() types.Identity {
	return types.Identity{
		Kind:      types.KindAddress,
		Name:      "web1",
		Container: types.ContainerRef{Scope: types.ScopeFolder, Name: "Texas"},
	}
}

// TestStoreCRUD tests the full object lifecycle through the store
func TestStoreCRUD(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	attrs := map[string]any{
		"name":       "web1",
		"folder":     "Texas",
		"ip_netmask": "10.0.0.0/24",
		"tag":        []string{"web"},
	}

	created, err := store.Create(ctx, types.KindAddress, attrs)
	require.NoError(t, err)
	assert.NotEqual(t, created.ID.String(), "")

	fetched, err := store.Fetch(ctx, webIdentity())
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "10.0.0.0/24", fetched.Attrs["ip_netmask"])
	// Lists come back as []any after the JSON round trip, like a remote
	// session's responses.
	assert.Equal(t, []any{"web"}, fetched.Attrs["tag"])

	updated := fetched.Clone()
	updated.Attrs["description"] = "web subnet"
	result, err := store.Update(ctx, types.KindAddress, updated)
	require.NoError(t, err)
	assert.Equal(t, "web subnet", result.Attrs["description"])

	require.NoError(t, store.Delete(ctx, types.KindAddress, created.ID))

	_, err = store.Fetch(ctx, webIdentity())
	var notFound *scm.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// TestStoreFetchNotFound tests the missing-object branch
func TestStoreFetchNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Fetch(context.Background(), webIdentity())
	var notFound *scm.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "web1", notFound.Identity.Name)
}

// TestStoreContainerIsolation tests that identical names in different
// containers are distinct objects
func TestStoreContainerIsolation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, types.KindAddress, map[string]any{
		"name": "web1", "folder": "Texas", "ip_netmask": "10.0.0.0/24",
	})
	require.NoError(t, err)
	_, err = store.Create(ctx, types.KindAddress, map[string]any{
		"name": "web1", "folder": "California", "ip_netmask": "10.1.0.0/24",
	})
	require.NoError(t, err)

	texas, err := store.Fetch(ctx, webIdentity())
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0/24", texas.Attrs["ip_netmask"])

	california, err := store.Fetch(ctx, types.Identity{
		Kind:      types.KindAddress,
		Name:      "web1",
		Container: types.ContainerRef{Scope: types.ScopeFolder, Name: "California"},
	})
	require.NoError(t, err)
	assert.Equal(t, "10.1.0.0/24", california.Attrs["ip_netmask"])
	assert.NotEqual(t, texas.ID, california.ID)
}

// TestStoreDuplicateCreate tests that creating over an existing key fails
func TestStoreDuplicateCreate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	attrs := map[string]any{"name": "web1", "folder": "Texas"}
	_, err := store.Create(ctx, types.KindTag, attrs)
	require.NoError(t, err)

	_, err = store.Create(ctx, types.KindTag, attrs)
	assert.Error(t, err)
}

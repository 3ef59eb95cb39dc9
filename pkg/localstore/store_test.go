package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nassimkhelifi/boutiqa-storefront/pkg/config"
)

func TestMemoryRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()

	_, err := store.Get(ctx, KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, KeyCart, []byte(`[{"cartItemId":"7-1-M"}]`)))

	value, err := store.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `[{"cartItemId":"7-1-M"}]`, string(value))

	require.NoError(t, store.Delete(ctx, KeyCart))
	_, err = store.Get(ctx, KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCopiesValues(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()

	original := []byte("promo")
	require.NoError(t, store.Put(ctx, KeyPromo, original))
	original[0] = 'X'

	stored, err := store.Get(ctx, KeyPromo)
	require.NoError(t, err)
	assert.Equal(t, "promo", string(stored))

	// Mutating the returned slice must not leak into the store either.
	stored[0] = 'Y'
	again, err := store.Get(ctx, KeyPromo)
	require.NoError(t, err)
	assert.Equal(t, "promo", string(again))
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := config.LocalStoreConfig{Path: filepath.Join(t.TempDir(), "state.db")}

	store, err := OpenSQLite(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Get(ctx, KeySession)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, KeySession, []byte(`{"token":"abc"}`)))

	value, err := store.Get(ctx, KeySession)
	require.NoError(t, err)
	assert.Equal(t, `{"token":"abc"}`, string(value))

	// Overwrite under the same key.
	require.NoError(t, store.Put(ctx, KeySession, []byte(`{"token":"def"}`)))
	value, err = store.Get(ctx, KeySession)
	require.NoError(t, err)
	assert.Equal(t, `{"token":"def"}`, string(value))

	require.NoError(t, store.Delete(ctx, KeySession))
	_, err = store.Get(ctx, KeySession)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := config.LocalStoreConfig{Path: filepath.Join(t.TempDir(), "state.db")}

	store, err := OpenSQLite(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, KeyCart, []byte("persisted")))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	value, err := reopened.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(value))
}

func TestSQLitePing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := OpenSQLite(ctx, config.LocalStoreConfig{InMemory: true}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Ping(ctx))
}

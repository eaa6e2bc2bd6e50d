package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpwatch/internal/domain"
)

func TestWatchlistStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	store := NewWatchlistStore(path)
	ctx := context.Background()

	entries := []domain.WatchlistEntry{
		{
			URI:     "u1",
			Record:  domain.TokenRecord{URI: "u1", MarketCapSol: 3.5},
			AddedAt: 1700000000000,
		},
	}
	require.NoError(t, store.Save(ctx, entries))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "u1", loaded[0].URI)
	assert.Equal(t, 3.5, loaded[0].Record.MarketCapSol)
}

func TestWatchlistStore_LoadMissingFile(t *testing.T) {
	store := NewWatchlistStore(filepath.Join(t.TempDir(), "nope.json"))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestWatchlistStore_SaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	store := NewWatchlistStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []domain.WatchlistEntry{{URI: "u1"}, {URI: "u2"}}))
	require.NoError(t, store.Save(ctx, []domain.WatchlistEntry{{URI: "u3"}}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "u3", loaded[0].URI)
}

func TestWatchlistStore_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "watchlist.json")
	store := NewWatchlistStore(path)

	require.NoError(t, store.Save(context.Background(), []domain.WatchlistEntry{{URI: "u1"}}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWatchlistStore_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	store := NewWatchlistStore(path)
	_, err := store.Load(context.Background())
	assert.Error(t, err)
}

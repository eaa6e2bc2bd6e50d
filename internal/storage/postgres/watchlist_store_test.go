package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"pumpwatch/internal/domain"
)

// setupTestDB creates a PostgreSQL container for testing.
// Returns a cleanup function that must be called after tests complete.
func setupTestDB(t *testing.T) (*Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func TestWatchlistStore_SaveAndLoad(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWatchlistStore(pool)
	ctx := context.Background()
	require.NoError(t, store.EnsureSchema(ctx))

	entries := []domain.WatchlistEntry{
		{
			URI: "u1",
			Record: domain.TokenRecord{
				URI:          "u1",
				Mint:         "m1",
				MarketCapSol: 12.5,
				TopHolders:   []float64{30, 20, 10},
				Metadata:     &domain.TokenMetadata{Name: "Tok", Symbol: "TOK"},
			},
			AddedAt: 1700000000000,
		},
		{URI: "u2", Record: domain.TokenRecord{URI: "u2"}, AddedAt: 1700000001000},
	}

	require.NoError(t, store.Save(ctx, entries))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "u1", loaded[0].URI)
	assert.Equal(t, 12.5, loaded[0].Record.MarketCapSol)
	assert.Equal(t, []float64{30, 20, 10}, loaded[0].Record.TopHolders)
	require.NotNil(t, loaded[0].Record.Metadata)
	assert.Equal(t, "TOK", loaded[0].Record.Metadata.Symbol)
	assert.Equal(t, int64(1700000001000), loaded[1].AddedAt)
}

func TestWatchlistStore_LoadEmpty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWatchlistStore(pool)
	ctx := context.Background()
	require.NoError(t, store.EnsureSchema(ctx))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestWatchlistStore_SaveReplacesPreviousValue(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWatchlistStore(pool)
	ctx := context.Background()
	require.NoError(t, store.EnsureSchema(ctx))

	require.NoError(t, store.Save(ctx, []domain.WatchlistEntry{
		{URI: "u1"}, {URI: "u2"},
	}))
	require.NoError(t, store.Save(ctx, []domain.WatchlistEntry{
		{URI: "u3"},
	}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "u3", loaded[0].URI)
}

func TestWatchlistStore_SaveNilClearsList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWatchlistStore(pool)
	ctx := context.Background()
	require.NoError(t, store.EnsureSchema(ctx))

	require.NoError(t, store.Save(ctx, []domain.WatchlistEntry{{URI: "u1"}}))
	require.NoError(t, store.Save(ctx, nil))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

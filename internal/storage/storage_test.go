package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"route-planner/internal/planner"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ planner.Store = (*RedisStore)(nil)
	_ planner.Store = (*PostgresStore)(nil)
)

// exerciseStore runs the slot contract shared by every backend.
func exerciseStore(t *testing.T, s planner.Store) {
	t.Helper()
	ctx := context.Background()
	key := planner.DraftKey("storage-test-" + time.Now().Format("150405.000000"))
	t.Cleanup(func() { _ = s.Delete(context.Background(), key) })

	_, err := s.Get(ctx, key)
	require.ErrorIs(t, err, planner.ErrSlotEmpty)

	require.NoError(t, s.Set(ctx, key, []byte(`{"step":1}`)))
	require.NoError(t, s.Set(ctx, key, []byte(`{"step":2}`)))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"step":2}`, string(got))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key), "deleting an empty slot is not an error")
	_, err = s.Get(ctx, key)
	require.ErrorIs(t, err, planner.ErrSlotEmpty)
}

func TestMemoryStoreContract(t *testing.T) {
	exerciseStore(t, planner.NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	s, err := NewRedisStore(context.Background(), url, time.Hour)
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	defer pool.Close()
	exerciseStore(t, NewPostgresStore(pool))
}

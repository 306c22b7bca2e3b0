package journal

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/id"
	"github.com/rustyeddy/tradejournal/ledger"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv("TRADEJOURNAL_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TRADEJOURNAL_TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	return redis.NewClient(opt)
}

func TestCachedStoreReadThroughAndInvalidate(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()
	user := "cache-" + id.New()

	primary := NewMemoryStore()
	s := NewCachedStore(primary, rdb, time.Minute, nil)
	defer s.Close()

	e := ledger.Entry{ID: "A", Code: "X", Name: "X", Direction: ledger.Buy, Quantity: 1, Price: 10, Date: day(2024, 1, 2), Seq: 1}
	require.NoError(t, s.Replace(ctx, user, []ledger.Entry{e}))

	got, err := s.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, got, 1)

	n, err := rdb.Exists(ctx, entriesKey(user)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "list populates the cache")

	// A write through the primary alone is invisible until invalidation.
	require.NoError(t, primary.Replace(ctx, user, nil))
	cached, err := s.List(ctx, user)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	require.NoError(t, s.Replace(ctx, user, nil))
	fresh, err := s.List(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestCachedStoreFallsBackWhenRedisIsDown(t *testing.T) {
	t.Parallel()

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	ctx := context.Background()

	primary := NewMemoryStore()
	s := NewCachedStore(primary, rdb, time.Minute, nil)
	defer s.Close()

	e := ledger.Entry{ID: "A", Code: "X", Name: "X", Direction: ledger.Buy, Quantity: 1, Price: 10, Date: day(2024, 1, 2), Seq: 1}
	require.NoError(t, s.Replace(ctx, "alice", []ledger.Entry{e}))

	got, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].ID)
}

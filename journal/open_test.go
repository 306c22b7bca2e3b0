package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/config"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		st, err := Open(ctx, config.JournalConfig{Type: "memory"}, nil)
		require.NoError(t, err)
		defer st.Close()
		assert.IsType(t, &MemoryStore{}, st)
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "journal.sqlite")
		st, err := Open(ctx, config.JournalConfig{Type: "sqlite", DBPath: path}, nil)
		require.NoError(t, err)
		defer st.Close()
		assert.IsType(t, &SQLite{}, st)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		_, err := Open(ctx, config.JournalConfig{Type: "bolt"}, nil)
		assert.ErrorContains(t, err, `unknown journal type "bolt"`)
	})

	t.Run("bad redis url", func(t *testing.T) {
		t.Parallel()
		_, err := Open(ctx, config.JournalConfig{Type: "memory", RedisURL: "not a url"}, nil)
		assert.ErrorContains(t, err, "invalid redis_url")
	})

	t.Run("redis wraps primary", func(t *testing.T) {
		t.Parallel()
		// Client construction does not dial, so no server is needed.
		st, err := Open(ctx, config.JournalConfig{Type: "memory", RedisURL: "redis://localhost:6379/0"}, nil)
		require.NoError(t, err)
		defer st.Close()
		assert.IsType(t, &CachedStore{}, st)
	})
}

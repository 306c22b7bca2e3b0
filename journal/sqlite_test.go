package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/ledger"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = 'entries'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "entries", name)
}

func TestSQLiteReplaceAndList(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	entries := []ledger.Entry{
		{
			ID: "E2", Code: "2330", Name: "TSMC", Direction: ledger.Sell,
			Quantity: 50, Price: 612.5, Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Seq: 2,
			Reason: "trim",
		},
		{
			ID: "E1", Code: "2330", Name: "TSMC", Direction: ledger.Buy,
			Quantity: 100, Price: 580.25, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Seq: 1,
		},
	}
	require.NoError(t, j.Replace(ctx, "alice", entries))

	got, err := j.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Stored order is chronological.
	assert.Equal(t, "E1", got[0].ID)
	assert.Equal(t, "E2", got[1].ID)

	assert.Equal(t, ledger.Sell, got[1].Direction)
	assert.InDelta(t, 50, got[1].Quantity, 1e-9)
	assert.InDelta(t, 612.5, got[1].Price, 1e-9)
	assert.True(t, got[1].Date.Equal(entries[0].Date))
	assert.Equal(t, int64(2), got[1].Seq)
	assert.Equal(t, "trim", got[1].Reason)
}

func TestSQLiteReplaceOverwrites(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	first := []ledger.Entry{
		{ID: "A", Code: "X", Name: "X", Direction: ledger.Buy, Quantity: 1, Price: 10, Date: time.Now(), Seq: 1},
		{ID: "B", Code: "X", Name: "X", Direction: ledger.Buy, Quantity: 1, Price: 10, Date: time.Now(), Seq: 2},
	}
	require.NoError(t, j.Replace(ctx, "alice", first))
	require.NoError(t, j.Replace(ctx, "alice", first[:1]))

	got, err := j.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].ID)
}

func TestSQLiteUsersAreIsolated(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	e := ledger.Entry{ID: "A", Code: "X", Name: "X", Direction: ledger.Buy, Quantity: 1, Price: 10, Date: time.Now(), Seq: 1}
	require.NoError(t, j.Replace(ctx, "alice", []ledger.Entry{e}))
	require.NoError(t, j.Replace(ctx, "bob", []ledger.Entry{e}))
	require.NoError(t, j.Replace(ctx, "bob", nil))

	alice, err := j.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, alice, 1)

	bob, err := j.List(ctx, "bob")
	require.NoError(t, err)
	assert.NotNil(t, bob)
	assert.Empty(t, bob)
}

func TestSQLiteReplaceRollsBackOnDuplicate(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	e := ledger.Entry{ID: "A", Code: "X", Name: "X", Direction: ledger.Buy, Quantity: 1, Price: 10, Date: time.Now(), Seq: 1}
	require.NoError(t, j.Replace(ctx, "alice", []ledger.Entry{e}))

	err := j.Replace(ctx, "alice", []ledger.Entry{e, e})
	require.Error(t, err)

	got, err := j.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

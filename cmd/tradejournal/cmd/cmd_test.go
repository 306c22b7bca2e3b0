package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/ledger"
	"github.com/rustyeddy/tradejournal/summary"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	require.NoError(t, rootCmd.Execute(), buf.String())
	return buf.String()
}

func TestJournalWorkflow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "journal.sqlite")

	out := run(t, "--db", db, "--user", "alice", "entry", "add",
		"--code", "AAPL", "--name", "Apple", "--dir", "buy", "--qty", "10", "--price", "100", "--date", "2024-06-03")
	assert.Contains(t, out, ":CODE: AAPL")
	assert.Contains(t, out, ":DIRECTION: BUY")

	run(t, "--db", db, "--user", "alice", "entry", "add",
		"--code", "AAPL", "--name", "Apple", "--dir", "S", "--qty", "4", "--price", "110", "--date", "2024-06-18")

	out = run(t, "--db", db, "--user", "alice", "summary", "--range", "all", "--format", "json")
	var p summary.Portfolio
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.InDelta(t, 40, p.TotalRealizedPnL, 1e-9)
	require.Len(t, p.Instruments, 1)
	assert.Equal(t, 6.0, p.Instruments[0].NetQuantity)
	assert.Equal(t, 100.0, p.Instruments[0].AverageCost)

	out = run(t, "--db", db, "--user", "alice", "entry", "day", "2024-06-03")
	assert.Contains(t, out, "BUY AAPL")
	assert.NotContains(t, out, "SELL AAPL")

	out = run(t, "--db", db, "--user", "alice", "entry", "list", "--range", "all", "--search", "apple")
	assert.Contains(t, out, "2024-06-18")

	csvPath := filepath.Join(dir, "journal.csv")
	run(t, "--db", db, "--user", "alice", "export", "-o", csvPath)
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id,code,name,direction,quantity,price,date,seq,reason")

	out = run(t, "--db", db, "--user", "bob", "import", "--replace", csvPath)
	assert.Contains(t, out, "Imported 2 entries")

	out = run(t, "--db", db, "--user", "bob", "summary", "--range", "all", "--format", "org")
	assert.Contains(t, out, ":REALIZED_PL:   40.00")
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tj.yaml")

	out := run(t, "config", "init", "-o", path)
	assert.Contains(t, out, "Created default configuration")

	out = run(t, "config", "validate", "-f", path)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "sqlite")
}

func TestVersion(t *testing.T) {
	assert.Contains(t, run(t, "version"), "tradejournal version")
}

type failingCloser struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (f *failingCloser) Close() error {
	f.closed = true
	return f.closeErr
}

func TestWriteCSVAndCloseReportsCloseError(t *testing.T) {
	w := &failingCloser{closeErr: errors.New("disk full")}
	err := writeCSVAndClose(w, []ledger.Entry{{ID: "A", Code: "X", Direction: ledger.Buy, Quantity: 1, Price: 10}})
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.True(t, w.closed)
	assert.Contains(t, w.String(), "id,code,name")

	ok := &failingCloser{}
	require.NoError(t, writeCSVAndClose(ok, nil))
	assert.True(t, ok.closed)
}

package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/tradejournal/ledger"
)

func TestFilterHistory(t *testing.T) {
	t.Parallel()

	entries := []ledger.Entry{
		{ID: "1", Code: "2330", Name: "TSMC", Date: day(2024, 3, 1), Seq: 1},
		{ID: "2", Code: "2317", Name: "Hon Hai", Date: day(2024, 3, 5), Seq: 2},
		{ID: "3", Code: "2330", Name: "TSMC", Date: day(2024, 3, 5), Seq: 3},
		{ID: "4", Code: "0050", Name: "Taiwan 50", Date: day(2024, 2, 1), Seq: 4},
	}

	ids := func(es []ledger.Entry) []string {
		out := make([]string, len(es))
		for i, e := range es {
			out[i] = e.ID
		}
		return out
	}

	tests := []struct {
		name string
		from time.Time
		term string
		want []string
	}{
		{"everything newest first", time.Time{}, "", []string{"3", "2", "1", "4"}},
		{"window inclusive", day(2024, 3, 1), "", []string{"3", "2", "1"}},
		{"code match", time.Time{}, "2330", []string{"3", "1"}},
		{"name match ignores case", time.Time{}, "hon", []string{"2"}},
		{"term is trimmed", time.Time{}, "  taiwan ", []string{"4"}},
		{"no match", time.Time{}, "nvda", []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ids(FilterHistory(entries, tt.from, tt.term)))
		})
	}
}

func TestFilterHistoryLeavesInputAlone(t *testing.T) {
	t.Parallel()

	entries := []ledger.Entry{
		{ID: "old", Date: day(2024, 1, 1)},
		{ID: "new", Date: day(2024, 1, 2)},
	}
	_ = FilterHistory(entries, time.Time{}, "")
	assert.Equal(t, "old", entries[0].ID)
}

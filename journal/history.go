package journal

import (
	"slices"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/ledger"
)

// FilterHistory returns the entries dated at or after from (no bound when
// from is zero) whose code or name contains term, ignoring case. The
// result is newest first: date descending, then Seq descending.
func FilterHistory(entries []ledger.Entry, from time.Time, term string) []ledger.Entry {
	term = strings.ToLower(strings.TrimSpace(term))

	out := make([]ledger.Entry, 0, len(entries))
	for _, e := range entries {
		if !from.IsZero() && e.Date.Before(from) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(e.Code), term) &&
			!strings.Contains(strings.ToLower(e.Name), term) {
			continue
		}
		out = append(out, e)
	}

	slices.SortStableFunc(out, func(a, b ledger.Entry) int {
		switch {
		case b.Before(a):
			return -1
		case a.Before(b):
			return 1
		}
		return 0
	})
	return out
}

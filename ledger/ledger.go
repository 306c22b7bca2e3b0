// Package ledger rebuilds per-instrument positions and realized P/L from a
// journal's raw entry log.
//
// Reconstruct is a pure function of its input: it never keeps state between
// calls, so the entry log stays the single source of truth and derived
// numbers can be recomputed on every read.
//
// Quantities and prices are float64. Every comparison against zero goes
// through Options.Epsilon, and a position that reaches zero is reset to
// exactly (0, 0) so no dust survives a full close.
package ledger

import (
	"math"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultEpsilon = 1e-6
	DefaultMinTick = 0.5
)

// Options tunes entry validation and numeric tolerance.
type Options struct {
	// MinTick is the lowest accepted price. Entries below it are skipped.
	MinTick float64
	Epsilon float64

	// Logger receives one debug line per skipped entry.
	Logger *zap.Logger
}

// DefaultOptions returns the options the journal runs with out of the box.
func DefaultOptions() Options {
	return Options{
		MinTick: DefaultMinTick,
		Epsilon: DefaultEpsilon,
	}
}

func (o Options) normalize() Options {
	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}
	if o.MinTick <= 0 {
		o.MinTick = DefaultMinTick
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Ledger is the result of one reconstruction.
type Ledger struct {
	Books   map[string]*Book
	Skipped []Entry
	Epsilon float64
}

// Codes returns the instrument codes in ascending order.
func (l *Ledger) Codes() []string {
	codes := make([]string, 0, len(l.Books))
	for code := range l.Books {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Book returns the book for code, or nil.
func (l *Ledger) Book(code string) *Book {
	return l.Books[code]
}

// Lots returns the closed lots of code (all instruments when code is
// empty) closed at or after from, oldest first. A zero from means no
// lower bound.
func (l *Ledger) Lots(code string, from time.Time) []ClosedLot {
	var out []ClosedLot
	for _, c := range l.Codes() {
		if code != "" && c != code {
			continue
		}
		for _, lot := range l.Books[c].Lots {
			if !from.IsZero() && lot.ClosedAt.Before(from) {
				continue
			}
			out = append(out, lot)
		}
	}
	slices.SortStableFunc(out, func(a, b ClosedLot) int {
		return a.ClosedAt.Compare(b.ClosedAt)
	})
	return out
}

// Reconstruct replays entries in chronological order (ties broken by Seq)
// and returns every instrument's final position and closed lots. The input
// order does not matter and the input slice is not modified. Invalid
// entries are skipped and reported in Ledger.Skipped.
func Reconstruct(entries []Entry, opts Options) *Ledger {
	opts = opts.normalize()
	eps := opts.Epsilon

	sorted := slices.Clone(entries)
	Sort(sorted)

	l := &Ledger{
		Books:   make(map[string]*Book),
		Epsilon: eps,
	}
	for _, e := range sorted {
		if reason := invalid(e, opts); reason != "" {
			opts.Logger.Debug("skipping entry",
				zap.String("reason", reason),
				zap.String("id", e.ID),
				zap.String("code", e.Code),
				zap.Float64("quantity", e.Quantity),
				zap.Float64("price", e.Price),
			)
			l.Skipped = append(l.Skipped, e)
			continue
		}

		b, ok := l.Books[e.Code]
		if !ok {
			b = &Book{Code: e.Code, Name: e.Name}
			l.Books[e.Code] = b
		}
		b.apply(e, eps)
	}
	return l
}

// Sort orders entries in application order: Date, then Seq, then ID.
func Sort(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})
}

func invalid(e Entry, opts Options) string {
	switch {
	case strings.TrimSpace(e.Code) == "":
		return "empty code"
	case e.Direction != Buy && e.Direction != Sell:
		return "unknown direction"
	case math.IsNaN(e.Quantity) || math.IsInf(e.Quantity, 0) || e.Quantity <= opts.Epsilon:
		return "quantity"
	case math.IsNaN(e.Price) || math.IsInf(e.Price, 0) || e.Price < opts.MinTick:
		return "price below min tick"
	}
	return ""
}

// Package summary turns a reconstructed ledger into the numbers a journal
// dashboard shows: realized P/L per instrument and for the whole
// portfolio, closed-trade counts and win rate.
//
// Only realized P/L and trade counts depend on the reporting window. Net
// quantity and average cost always describe the instrument's full history.
package summary

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradejournal/ledger"
)

// Instrument is the dashboard row for one instrument.
type Instrument struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	NetQuantity   float64 `json:"net_quantity"`
	AverageCost   float64 `json:"average_cost"`
	RealizedPnL   float64 `json:"realized_pnl"`
	ClosedTrades  int     `json:"closed_trades"`
	WinningTrades int     `json:"winning_trades"`
}

// Exposure is the absolute cost of the open position.
func (i Instrument) Exposure() float64 {
	return math.Abs(i.NetQuantity * i.AverageCost)
}

// Portfolio is the dashboard summary for one window.
type Portfolio struct {
	Period            Range        `json:"period"`
	From              time.Time    `json:"from,omitzero"`
	Instruments       []Instrument `json:"instruments"`
	TotalRealizedPnL  float64      `json:"total_realized_pnl"`
	WinRate           float64      `json:"win_rate"` // percent, 2 decimals
	TotalClosedTrades int          `json:"total_closed_trades"`
	WinningTrades     int          `json:"winning_trades"`
}

// Aggregate summarizes l counting only lots closed at or after from. A zero
// from counts every lot. Instruments are returned in code order; use
// SortByExposure for the dashboard ordering.
func Aggregate(l *ledger.Ledger, from time.Time) Portfolio {
	p := Portfolio{
		Period:      All,
		From:        from,
		Instruments: []Instrument{},
	}
	if l == nil {
		return p
	}

	for _, code := range l.Codes() {
		b := l.Book(code)
		row := Instrument{
			Code:        b.Code,
			Name:        b.Name,
			NetQuantity: b.Position.Quantity,
			AverageCost: b.Position.AverageCost(l.Epsilon),
		}
		for _, lot := range b.Lots {
			if !from.IsZero() && lot.ClosedAt.Before(from) {
				continue
			}
			row.RealizedPnL += lot.PnL
			switch {
			case lot.PnL > 0:
				row.WinningTrades++
				row.ClosedTrades++
			case lot.PnL < 0:
				row.ClosedTrades++
			}
		}
		p.TotalRealizedPnL += row.RealizedPnL
		p.TotalClosedTrades += row.ClosedTrades
		p.WinningTrades += row.WinningTrades
		p.Instruments = append(p.Instruments, row)
	}

	p.WinRate = WinRate(p.WinningTrades, p.TotalClosedTrades)
	return p
}

// AggregateRange resolves r against now and aggregates l for that window.
func AggregateRange(l *ledger.Ledger, r Range, now time.Time) Portfolio {
	p := Aggregate(l, r.Start(now))
	p.Period = r
	return p
}

// WinRate returns wins/total as a percentage rounded to 2 decimals, or 0
// when nothing was closed.
func WinRate(wins, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(wins)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
	return rate.InexactFloat64()
}

// SortByExposure orders rows by absolute open-position cost, largest
// first, ties broken by code.
func SortByExposure(rows []Instrument) {
	slices.SortStableFunc(rows, func(a, b Instrument) int {
		if c := cmp.Compare(b.Exposure(), a.Exposure()); c != 0 {
			return c
		}
		return strings.Compare(a.Code, b.Code)
	})
}

// FilterInstruments keeps rows whose code or name contains term, ignoring
// case. An empty term keeps everything.
func FilterInstruments(rows []Instrument, term string) []Instrument {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Instrument, 0, len(rows))
	for _, r := range rows {
		if term == "" ||
			strings.Contains(strings.ToLower(r.Code), term) ||
			strings.Contains(strings.ToLower(r.Name), term) {
			out = append(out, r)
		}
	}
	return out
}

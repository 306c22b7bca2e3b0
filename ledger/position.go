package ledger

import (
	"math"
	"time"
)

// Position is the running state of one instrument. Cost is the aggregate
// cost backing Quantity, not a per-share price.
type Position struct {
	Quantity float64 `json:"quantity"` // +long, -short, 0 flat
	Cost     float64 `json:"cost"`
}

// Flat reports whether the position holds nothing within eps.
func (p Position) Flat(eps float64) bool {
	return math.Abs(p.Quantity) < eps
}

// AverageCost is Cost per unit, or 0 for a flat position.
func (p Position) AverageCost(eps float64) float64 {
	abs := math.Abs(p.Quantity)
	if abs <= eps {
		return 0
	}
	return p.Cost / abs
}

// ClosedLot is the realized P/L of one closing (or partially closing)
// entry.
type ClosedLot struct {
	Code       string    `json:"code"`
	EntryID    string    `json:"entry_id,omitempty"`
	Quantity   float64   `json:"quantity"`
	EntryPrice float64   `json:"entry_price"` // average cost of the closed position
	ExitPrice  float64   `json:"exit_price"`
	Short      bool      `json:"short"`
	PnL        float64   `json:"pnl"`
	ClosedAt   time.Time `json:"closed_at"`
}

// Win reports whether the lot made money.
func (l ClosedLot) Win() bool { return l.PnL > 0 }

// Book is the reconstructed history of a single instrument.
type Book struct {
	Code     string      `json:"code"`
	Name     string      `json:"name"`
	Position Position    `json:"position"`
	Lots     []ClosedLot `json:"lots"`
}

// apply folds one valid entry into the book.
func (b *Book) apply(e Entry, eps float64) {
	q := b.Position.Quantity
	sameSide := (e.Direction == Buy && q >= 0) || (e.Direction == Sell && q <= 0)
	if sameSide {
		b.Position.Cost += e.Price * e.Quantity
		b.Position.Quantity += e.Signed()
		return
	}

	held := math.Abs(q)
	avg := b.Position.AverageCost(eps)
	closed := math.Min(e.Quantity, held)
	remainder := e.Quantity - closed
	long := q > 0

	if closed > eps {
		pnl := (e.Price - avg) * closed
		if !long {
			pnl = (avg - e.Price) * closed
		}
		if math.Abs(pnl) > eps {
			b.Lots = append(b.Lots, ClosedLot{
				Code:       b.Code,
				EntryID:    e.ID,
				Quantity:   closed,
				EntryPrice: avg,
				ExitPrice:  e.Price,
				Short:      !long,
				PnL:        pnl,
				ClosedAt:   e.Date,
			})
		}
		b.Position.Cost -= avg * closed
		if long {
			b.Position.Quantity -= closed
		} else {
			b.Position.Quantity += closed
		}
	}

	if !b.Position.Flat(eps) {
		return
	}
	if remainder > eps {
		// Flip: the old side is realized, the new side starts at the
		// transaction price.
		b.Position.Quantity = remainder
		if e.Direction == Sell {
			b.Position.Quantity = -remainder
		}
		b.Position.Cost = e.Price * remainder
		return
	}
	b.Position = Position{}
}

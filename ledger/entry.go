package ledger

import (
	"fmt"
	"strings"
	"time"
)

// Direction is the side of a journal entry.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// ParseDirection accepts BUY/SELL in any case, plus the B/S shorthands.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "B":
		return Buy, nil
	case "SELL", "S":
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

// Entry is one manually logged trade. Entries are never mutated by the
// ledger; edits happen upstream by replacing the whole entry list.
type Entry struct {
	ID        string    `json:"id" yaml:"id"`
	Code      string    `json:"code" yaml:"code"`
	Name      string    `json:"name" yaml:"name"`
	Direction Direction `json:"direction" yaml:"direction"`
	Quantity  float64   `json:"quantity" yaml:"quantity"`
	Price     float64   `json:"price" yaml:"price"`
	Date      time.Time `json:"date" yaml:"date"`

	// Seq orders entries that share a Date. It is assigned when the
	// entry is created and never changes afterwards.
	Seq    int64  `json:"seq" yaml:"seq"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Before reports whether e must be applied before o.
func (e Entry) Before(o Entry) bool {
	if !e.Date.Equal(o.Date) {
		return e.Date.Before(o.Date)
	}
	if e.Seq != o.Seq {
		return e.Seq < o.Seq
	}
	return e.ID < o.ID
}

// Signed returns the quantity with the sign of the direction.
func (e Entry) Signed() float64 {
	if e.Direction == Sell {
		return -e.Quantity
	}
	return e.Quantity
}

package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/ledger"
)

// RangeLister is implemented by stores that can select entries by date
// without loading the whole list.
type RangeLister interface {
	ListBetween(ctx context.Context, user string, start, end time.Time) ([]ledger.Entry, error)
}

// ListBetween returns user's entries dated within [start, end), oldest first.
func (j *SQLite) ListBetween(ctx context.Context, user string, start, end time.Time) ([]ledger.Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, code, name, direction, quantity, price, date, seq, reason
		FROM entries
		WHERE user = ? AND date >= ? AND date < ?
		ORDER BY date ASC, seq ASC`, user, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ledger.Entry{}
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(
			&e.ID,
			&e.Code,
			&e.Name,
			&e.Direction,
			&e.Quantity,
			&e.Price,
			&e.Date,
			&e.Seq,
			&e.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Between returns entries dated within [start, end), oldest first.
func (j *Journal) Between(ctx context.Context, user string, start, end time.Time) ([]ledger.Entry, error) {
	if rl, ok := j.store.(RangeLister); ok {
		entries, err := rl.ListBetween(ctx, user, start, end)
		if err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		return entries, nil
	}

	entries, err := j.Entries(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Date.Before(start) && e.Date.Before(end) {
			out = append(out, e)
		}
	}
	ledger.Sort(out)
	return out, nil
}

// DayBounds returns the [start, end) interval covering a YYYY-MM-DD day.
func DayBounds(day string) (time.Time, time.Time, error) {
	start, err := ParseDay(day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}

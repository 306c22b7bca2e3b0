// Package journal stores trade entries and runs the ledger over them.
//
// A Store only knows how to read and overwrite a user's full entry list.
// Every mutation made through Journal is "load everything, change the
// slice, write everything back"; derived numbers are recomputed from the
// stored list on every read.
package journal

import (
	"context"
	"errors"

	"github.com/rustyeddy/tradejournal/ledger"
)

var (
	// ErrNotFound is returned when an entry ID does not exist.
	ErrNotFound = errors.New("entry not found")

	// ErrInvalidEntry wraps form validation failures.
	ErrInvalidEntry = errors.New("invalid entry")
)

// Store persists each user's entry list.
type Store interface {
	// List returns every entry for user. A user with no journal yet has
	// an empty list, not an error.
	List(ctx context.Context, user string) ([]ledger.Entry, error)

	// Replace overwrites user's entry list.
	Replace(ctx context.Context, user string, entries []ledger.Entry) error

	Close() error
}

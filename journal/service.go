package journal

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/id"
	"github.com/rustyeddy/tradejournal/ledger"
	"github.com/rustyeddy/tradejournal/metrics"
	"github.com/rustyeddy/tradejournal/summary"
)

// Form limits for new or edited entries.
const (
	MinQuantity = 1
	MinPrice    = 0.1
)

// Journal is the entry-store front end: it validates edits, rewrites the
// full entry list on every mutation and rebuilds the ledger on every read.
type Journal struct {
	store Store
	opts  ledger.Options
	loc   *time.Location
	log   *zap.Logger
	now   func() time.Time

	locks [lockStripes]sync.Mutex
}

// lockStripes is the fixed number of mutexes serializing writes; users
// are hashed onto them, so memory stays bounded however many user names
// clients send. Users sharing a stripe wait on each other.
const lockStripes = 64

// Option configures a Journal.
type Option func(*Journal)

// WithLogger sets the logger; it is also handed to the ledger.
func WithLogger(log *zap.Logger) Option {
	return func(j *Journal) { j.log = log }
}

// WithLocation sets the zone used to resolve reporting windows.
func WithLocation(loc *time.Location) Option {
	return func(j *Journal) { j.loc = loc }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

func New(store Store, opts ledger.Options, options ...Option) *Journal {
	j := &Journal{
		store: store,
		opts:  opts,
		loc:   time.Local,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, o := range options {
		o(j)
	}
	if j.opts.Logger == nil {
		j.opts.Logger = j.log
	}
	return j
}

// Now returns the current time in the journal's location.
func (j *Journal) Now() time.Time {
	return j.now().In(j.loc)
}

// Close closes the underlying store.
func (j *Journal) Close() error {
	return j.store.Close()
}

// lock serializes mutations of one user's entry list within the process.
func (j *Journal) lock(user string) func() {
	m := &j.locks[stripe(user)]
	m.Lock()
	return m.Unlock
}

func stripe(user string) int {
	h := fnv.New32a()
	h.Write([]byte(user))
	return int(h.Sum32() % lockStripes)
}

// Entries returns user's raw entry list.
func (j *Journal) Entries(ctx context.Context, user string) ([]ledger.Entry, error) {
	entries, err := j.store.List(ctx, user)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		j.log.Error("list entries", zap.String("user", user), zap.Error(err))
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

func (j *Journal) replace(ctx context.Context, user string, entries []ledger.Entry) error {
	if err := j.store.Replace(ctx, user, entries); err != nil {
		metrics.StoreErrors.WithLabelValues("replace").Inc()
		j.log.Error("replace entries", zap.String("user", user), zap.Int("count", len(entries)), zap.Error(err))
		return fmt.Errorf("save entries: %w", err)
	}
	return nil
}

// Get returns a single entry by ID.
func (j *Journal) Get(ctx context.Context, user, entryID string) (ledger.Entry, error) {
	entries, err := j.Entries(ctx, user)
	if err != nil {
		return ledger.Entry{}, err
	}
	i := indexOf(entries, entryID)
	if i < 0 {
		return ledger.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, entryID)
	}
	return entries[i], nil
}

// Add validates e, assigns its ID and Seq and stores it in front of the
// existing entries.
func (j *Journal) Add(ctx context.Context, user string, e ledger.Entry) (ledger.Entry, error) {
	e = j.normalize(e)
	if err := Validate(e); err != nil {
		return ledger.Entry{}, err
	}

	unlock := j.lock(user)
	defer unlock()

	entries, err := j.Entries(ctx, user)
	if err != nil {
		return ledger.Entry{}, err
	}

	now := j.now()
	e.ID = id.NewAt(now)
	e.Seq = nextSeq(entries, now)

	if err := j.replace(ctx, user, append([]ledger.Entry{e}, entries...)); err != nil {
		return ledger.Entry{}, err
	}
	j.log.Info("entry added",
		zap.String("user", user),
		zap.String("id", e.ID),
		zap.String("code", e.Code),
		zap.String("direction", string(e.Direction)),
	)
	return e, nil
}

// Update replaces the entry with ID entryID, keeping its ID and Seq.
func (j *Journal) Update(ctx context.Context, user, entryID string, e ledger.Entry) (ledger.Entry, error) {
	e = j.normalize(e)
	if err := Validate(e); err != nil {
		return ledger.Entry{}, err
	}

	unlock := j.lock(user)
	defer unlock()

	entries, err := j.Entries(ctx, user)
	if err != nil {
		return ledger.Entry{}, err
	}
	i := indexOf(entries, entryID)
	if i < 0 {
		return ledger.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, entryID)
	}

	e.ID = entries[i].ID
	e.Seq = entries[i].Seq
	entries[i] = e

	if err := j.replace(ctx, user, entries); err != nil {
		return ledger.Entry{}, err
	}
	j.log.Info("entry updated", zap.String("user", user), zap.String("id", e.ID))
	return e, nil
}

// Delete removes the entry with ID entryID.
func (j *Journal) Delete(ctx context.Context, user, entryID string) error {
	unlock := j.lock(user)
	defer unlock()

	entries, err := j.Entries(ctx, user)
	if err != nil {
		return err
	}
	i := indexOf(entries, entryID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, entryID)
	}

	if err := j.replace(ctx, user, slices.Delete(entries, i, i+1)); err != nil {
		return err
	}
	j.log.Info("entry deleted", zap.String("user", user), zap.String("id", entryID))
	return nil
}

// Import merges entries into user's journal. Entries whose ID already
// exists replace the stored one; entries without an ID or Seq get fresh
// ones. With replaceAll the stored list is discarded first. Imported
// entries are not form-validated: the ledger skips anything unusable.
func (j *Journal) Import(ctx context.Context, user string, entries []ledger.Entry, replaceAll bool) (int, error) {
	unlock := j.lock(user)
	defer unlock()

	var current []ledger.Entry
	if !replaceAll {
		var err error
		current, err = j.Entries(ctx, user)
		if err != nil {
			return 0, err
		}
	}

	now := j.now()
	for _, e := range entries {
		if !e.Date.IsZero() {
			e.Date = Day(e.Date)
		}
		if e.ID != "" {
			if i := indexOf(current, e.ID); i >= 0 {
				// A stored entry keeps its sequence unless the row sets one.
				if e.Seq == 0 {
					e.Seq = current[i].Seq
				}
				current[i] = e
				continue
			}
		}
		if e.Seq == 0 {
			e.Seq = nextSeq(current, now)
		}
		if e.ID == "" {
			e.ID = id.NewAt(now)
		}
		current = append(current, e)
	}

	if err := j.replace(ctx, user, current); err != nil {
		return 0, err
	}
	j.log.Info("entries imported", zap.String("user", user), zap.Int("count", len(entries)))
	return len(entries), nil
}

// Ledger rebuilds user's ledger from the stored entries.
func (j *Journal) Ledger(ctx context.Context, user string) (*ledger.Ledger, error) {
	entries, err := j.Entries(ctx, user)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	l := ledger.Reconstruct(entries, j.opts)

	open, lots := 0, 0
	for _, b := range l.Books {
		if !b.Position.Flat(l.Epsilon) {
			open++
		}
		lots += len(b.Lots)
	}
	metrics.ObserveReconstruct(start, len(entries), len(l.Skipped), open, lots)
	if len(l.Skipped) > 0 {
		j.log.Debug("entries skipped", zap.String("user", user), zap.Int("count", len(l.Skipped)))
	}
	return l, nil
}

// Summary returns the portfolio summary for window r.
func (j *Journal) Summary(ctx context.Context, user string, r summary.Range) (summary.Portfolio, error) {
	l, err := j.Ledger(ctx, user)
	if err != nil {
		return summary.Portfolio{}, err
	}
	p := summary.Aggregate(l, j.windowStart(r))
	p.Period = r
	return p, nil
}

// Lots returns closed lots for code (every instrument when empty) within
// window r, oldest first.
func (j *Journal) Lots(ctx context.Context, user, code string, r summary.Range) ([]ledger.ClosedLot, error) {
	l, err := j.Ledger(ctx, user)
	if err != nil {
		return nil, err
	}
	return l.Lots(code, j.windowStart(r)), nil
}

// History returns entries inside window r matching term, newest first.
func (j *Journal) History(ctx context.Context, user string, r summary.Range, term string) ([]ledger.Entry, error) {
	entries, err := j.Entries(ctx, user)
	if err != nil {
		return nil, err
	}
	return FilterHistory(entries, j.windowStart(r), term), nil
}

// windowStart resolves r in the journal's location and returns the
// calendar day it starts on, in the same UTC-midnight form as entry
// dates. Zero means no bound.
func (j *Journal) windowStart(r summary.Range) time.Time {
	start := r.Start(j.Now())
	if start.IsZero() {
		return start
	}
	return Day(start)
}

// Validate applies the entry form rules.
func Validate(e ledger.Entry) error {
	switch {
	case strings.TrimSpace(e.Code) == "":
		return fmt.Errorf("%w: code is required", ErrInvalidEntry)
	case strings.TrimSpace(e.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	case e.Direction != ledger.Buy && e.Direction != ledger.Sell:
		return fmt.Errorf("%w: direction must be BUY or SELL", ErrInvalidEntry)
	case math.IsNaN(e.Quantity) || math.IsInf(e.Quantity, 0) || e.Quantity < MinQuantity:
		return fmt.Errorf("%w: quantity must be >= %d", ErrInvalidEntry, MinQuantity)
	case math.IsNaN(e.Price) || math.IsInf(e.Price, 0) || e.Price < MinPrice:
		return fmt.Errorf("%w: price must be >= %.1f", ErrInvalidEntry, MinPrice)
	}
	return nil
}

func (j *Journal) normalize(e ledger.Entry) ledger.Entry {
	e.Code = strings.TrimSpace(e.Code)
	e.Name = strings.TrimSpace(e.Name)
	if e.Date.IsZero() {
		e.Date = j.Now()
	}
	e.Date = Day(e.Date)
	return e
}

// Day truncates t to its calendar date, expressed as midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

func indexOf(entries []ledger.Entry, entryID string) int {
	return slices.IndexFunc(entries, func(e ledger.Entry) bool { return e.ID == entryID })
}

// nextSeq is the creation time in milliseconds, bumped past any Seq
// already in use so sequence numbers stay strictly increasing.
func nextSeq(entries []ledger.Entry, now time.Time) int64 {
	seq := now.UnixMilli()
	for _, e := range entries {
		if e.Seq >= seq {
			seq = e.Seq + 1
		}
	}
	return seq
}

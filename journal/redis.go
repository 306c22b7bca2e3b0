package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/ledger"
)

// CachedStore wraps a primary Store with a Redis read-through cache.
// Writes go to the primary store and invalidate the cache; reads check
// Redis first then fall back to the primary. A Redis outage degrades to
// primary-only reads.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
	log     *zap.Logger
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
		log:     log,
	}
}

func (s *CachedStore) List(ctx context.Context, user string) ([]ledger.Entry, error) {
	data, err := s.rdb.Get(ctx, entriesKey(user)).Bytes()
	if err == nil {
		var entries []ledger.Entry
		if json.Unmarshal(data, &entries) == nil {
			if entries == nil {
				entries = []ledger.Entry{}
			}
			return entries, nil
		}
	} else if err != redis.Nil {
		s.log.Warn("redis read failed", zap.String("user", user), zap.Error(err))
	}

	entries, err := s.primary.List(ctx, user)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(entries); err == nil {
		if err := s.rdb.Set(ctx, entriesKey(user), data, s.ttl).Err(); err != nil {
			s.log.Warn("redis write failed", zap.String("user", user), zap.Error(err))
		}
	}
	return entries, nil
}

func (s *CachedStore) Replace(ctx context.Context, user string, entries []ledger.Entry) error {
	if err := s.primary.Replace(ctx, user, entries); err != nil {
		return err
	}
	// Next read re-populates.
	if err := s.rdb.Del(ctx, entriesKey(user)).Err(); err != nil {
		s.log.Warn("redis invalidate failed", zap.String("user", user), zap.Error(err))
	}
	return nil
}

func (s *CachedStore) Close() error {
	rerr := s.rdb.Close()
	if err := s.primary.Close(); err != nil {
		return err
	}
	return rerr
}

func entriesKey(user string) string { return fmt.Sprintf("tradejournal:entries:%s", user) }

package journal

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/config"
)

// Open builds the Store described by cfg, wrapping it in a Redis cache
// when a redis_url is configured.
func Open(ctx context.Context, cfg config.JournalConfig, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var st Store
	switch cfg.Type {
	case "memory":
		log.Warn("using in-memory store, entries will not persist")
		st = NewMemoryStore()
	case "sqlite":
		s, err := NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.DBPath, err)
		}
		log.Info("opened sqlite journal", zap.String("path", cfg.DBPath))
		st = s
	case "postgres":
		s, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info("connected to postgres")
		st = s
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}

	if cfg.RedisURL == "" {
		return st, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("invalid redis_url: %w", err)
	}
	ttl, err := cfg.ParseCacheTTL()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("cache_ttl: %w", err)
	}
	log.Info("redis cache enabled", zap.Duration("ttl", ttl))
	return NewCachedStore(st, redis.NewClient(opt), ttl, log), nil
}

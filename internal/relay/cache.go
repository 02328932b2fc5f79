package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/Othello-Nostr-bot/internal/event"
	"github.com/park285/Othello-Nostr-bot/internal/metrics"
)

const defaultCacheTTL = 24 * time.Hour

// Lookup fetches a single event by id; nil means not found.
type Lookup interface {
	FetchByID(ctx context.Context, id string) (*event.Event, error)
}

// Cache keeps fetched events in Redis. Events are immutable by id, so a hit
// never goes stale; misses are not cached because the event may still arrive.
type Cache struct {
	rdb    *redis.Client
	next   Lookup
	ttl    time.Duration
	logger *zap.Logger
}

func NewCache(rdb *redis.Client, next Lookup, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{rdb: rdb, next: next, ttl: ttl, logger: logger}
}

// OpenRedis connects to redisURL and pings it.
func OpenRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(redisURL))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func cacheKey(id string) string { return "event:" + strings.ToLower(strings.TrimSpace(id)) }

func (c *Cache) FetchByID(ctx context.Context, id string) (*event.Event, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(id)).Bytes()
	switch {
	case err == nil:
		var ev event.Event
		if jerr := json.Unmarshal(raw, &ev); jerr == nil {
			metrics.LookupCacheTotal.WithLabelValues("hit").Inc()
			return &ev, nil
		}
		c.logger.Warn("lookup_cache_corrupt", zap.String("id", id))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("lookup_cache_get_error", zap.String("id", id), zap.Error(err))
	}
	metrics.LookupCacheTotal.WithLabelValues("miss").Inc()

	ev, err := c.next.FetchByID(ctx, id)
	if err != nil || ev == nil {
		return ev, err
	}
	if payload, merr := ev.Marshal(); merr == nil {
		if serr := c.rdb.Set(ctx, cacheKey(id), payload, c.ttl).Err(); serr != nil {
			c.logger.Warn("lookup_cache_set_error", zap.String("id", id), zap.Error(serr))
		}
	}
	return ev, nil
}

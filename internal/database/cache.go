package database

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/metrics"
)

const (
	cacheKeyPrefix = "luminous:docs:"
	cacheGenPrefix = "luminous:gen:"
)

// CacheStore is a read-through cache in front of another Store. Every cached
// read is its own key with its own TTL. Keys embed a per-collection
// generation, so a write to a collection bumps the generation and orphans
// every earlier read of it. Empty results are not cached. Redis errors are
// logged and the call falls through to the wrapped store.
type CacheStore struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
}

// WithCache returns next unchanged when client is nil.
func WithCache(next Store, client *redis.Client, ttl time.Duration) Store {
	if client == nil {
		return next
	}
	return &CacheStore{next: next, client: client, ttl: ttl}
}

func cacheField(filter domain.Filter) string {
	keys := filterKeys(filter)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + filter[k]
	}
	return "?" + strings.Join(parts, "&")
}

func cacheKey(collection string, gen int64, filter domain.Filter) string {
	return cacheKeyPrefix + collection + ":" + strconv.FormatInt(gen, 10) + ":" + cacheField(filter)
}

// generation reads the collection's current generation; a missing counter is 0.
func (c *CacheStore) generation(ctx context.Context, collection string) (int64, error) {
	gen, err := c.client.Get(ctx, cacheGenPrefix+collection).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *CacheStore) Find(ctx context.Context, collection string, filter domain.Filter, out any) error {
	gen, err := c.generation(ctx, collection)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("collection", collection).Msg("cache read failed")
		return c.next.Find(ctx, collection, filter, out)
	}
	key := cacheKey(collection, gen, filter)

	cached, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(cached, out); jsonErr == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return nil
		}
		metrics.CacheLookups.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("collection", collection).Msg("cache read failed")
	}

	if err := c.next.Find(ctx, collection, filter, out); err != nil {
		return err
	}

	raw, err := json.Marshal(out)
	if err != nil || isEmptyJSON(raw) {
		return nil
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("collection", collection).Msg("cache write failed")
	}
	return nil
}

func isEmptyJSON(raw []byte) bool {
	s := string(raw)
	return s == "[]" || s == "null"
}

func (c *CacheStore) invalidate(ctx context.Context, collection string) {
	if err := c.client.Incr(ctx, cacheGenPrefix+collection).Err(); err != nil {
		log.Warn().Err(err).Str("collection", collection).Msg("cache invalidation failed")
	}
}

func (c *CacheStore) Insert(ctx context.Context, collection string, docs ...any) error {
	defer c.invalidate(ctx, collection)
	return c.next.Insert(ctx, collection, docs...)
}

func (c *CacheStore) DeleteMany(ctx context.Context, collection string, filter domain.Filter) error {
	defer c.invalidate(ctx, collection)
	return c.next.DeleteMany(ctx, collection, filter)
}

func (c *CacheStore) Ping(ctx context.Context) error { return c.next.Ping(ctx) }

func (c *CacheStore) Close(ctx context.Context) error {
	if err := c.client.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close failed")
	}
	return c.next.Close(ctx)
}

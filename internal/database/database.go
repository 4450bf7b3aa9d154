package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/cloud"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/config"
)

// Connect opens the configured backend, wraps it with the enabled decorators
// and pings it. The caller owns the returned Store and must Close it.
func Connect(ctx context.Context) (Store, error) {
	base, err := open(ctx, config.StoreDriver())
	if err != nil {
		return nil, err
	}

	store := WithTimeout(Instrument(base), config.StoreQueryTimeout())
	if config.BreakerEnabled() {
		store = WithBreaker(store)
	}
	store = WithCache(store, redisClient(ctx), config.CacheTTL())

	if err := store.Ping(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("store ping failed: %w", err)
	}
	return store, nil
}

func open(ctx context.Context, driver string) (Store, error) {
	log.Info().Str("driver", driver).Msg("opening document store")

	switch driver {
	case "mongo", "mongodb":
		return NewMongoStore(ctx, config.MongoURI(), config.MongoDatabase(), config.StoreQueryTimeout())
	case "postgres", "postgresql":
		return ConnectPostgres(ctx, config.PostgresDSN())
	case "dynamodb":
		return cloud.NewDynamoDBClient(ctx, config.AWSRegion(), config.DynamoTablePrefix())
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}
}

// redisClient returns nil when caching is disabled or redis is unreachable;
// the API keeps serving from the store either way.
func redisClient(ctx context.Context) *redis.Client {
	url := config.CacheRedisURL()
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warn().Err(err).Msg("invalid CACHE_REDIS_URL, cache disabled")
		return nil
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, cache disabled")
		_ = client.Close()
		return nil
	}
	return client
}

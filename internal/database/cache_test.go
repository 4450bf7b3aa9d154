package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

type countingStore struct {
	*MemoryStore
	finds int
}

func (s *countingStore) Find(ctx context.Context, collection string, filter domain.Filter, out any) error {
	s.finds++
	return s.MemoryStore.Find(ctx, collection, filter, out)
}

func newCached(t *testing.T, next Store, ttl time.Duration) (Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return WithCache(next, client, ttl), mr
}

func findTariffs(t *testing.T, s Store, date string) []domain.PredictedTariff {
	t.Helper()
	var got []domain.PredictedTariff
	require.NoError(t, s.Find(context.Background(), domain.CollectionPredictedTariffs, domain.Filter{domain.FieldDate: date}, &got))
	return got
}

func TestCacheHitSkipsStore(t *testing.T) {
	ctx := context.Background()
	base := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, base.Insert(ctx, domain.CollectionPredictedTariffs,
		domain.PredictedTariff{Hour: 3, Tariff: 5.3, Date: "21-10-2024"}))
	cached, _ := newCached(t, base, time.Minute)

	first := findTariffs(t, cached, "21-10-2024")
	second := findTariffs(t, cached, "21-10-2024")
	require.Equal(t, first, second)
	require.Len(t, second, 1)
	require.Equal(t, 5.3, second[0].Tariff)
	require.Equal(t, 1, base.finds)

	// a different filter is a different entry
	require.Empty(t, findTariffs(t, cached, "22-10-2024"))
	require.Equal(t, 2, base.finds)
}

func TestCacheInsertInvalidatesCollection(t *testing.T) {
	ctx := context.Background()
	base := &countingStore{MemoryStore: NewMemoryStore()}
	cached, _ := newCached(t, base, time.Minute)
	require.NoError(t, cached.Insert(ctx, domain.CollectionPredictedTariffs,
		domain.PredictedTariff{Hour: 0, Date: "21-10-2024"}))
	require.Len(t, findTariffs(t, cached, "21-10-2024"), 1)

	require.NoError(t, cached.Insert(ctx, domain.CollectionPredictedTariffs,
		domain.PredictedTariff{Hour: 1, Date: "21-10-2024"}))
	require.Len(t, findTariffs(t, cached, "21-10-2024"), 2)

	require.NoError(t, cached.DeleteMany(ctx, domain.CollectionPredictedTariffs, nil))
	require.Empty(t, findTariffs(t, cached, "21-10-2024"))
	require.Equal(t, 3, base.finds)
}

func TestCacheDoesNotHideStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	base := &stubStore{findFn: func(context.Context) error { return boom }}
	cached, mr := newCached(t, base, time.Minute)

	for i := 0; i < 2; i++ {
		var got []domain.PredictedTariff
		err := cached.Find(context.Background(), domain.CollectionPredictedTariffs, domain.Filter{domain.FieldDate: "21-10-2024"}, &got)
		require.ErrorIs(t, err, boom)
		require.Nil(t, got)
	}
	require.Equal(t, 2, base.calls)
	require.Empty(t, mr.Keys())
}

func TestCacheFallsThroughWhenRedisFails(t *testing.T) {
	ctx := context.Background()
	base := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, base.Insert(ctx, domain.CollectionPredictedTariffs,
		domain.PredictedTariff{Hour: 0, Date: "21-10-2024"}))
	cached, mr := newCached(t, base, time.Minute)

	mr.SetError("LOADING redis is loading")
	require.Len(t, findTariffs(t, cached, "21-10-2024"), 1)
	require.Len(t, findTariffs(t, cached, "21-10-2024"), 1)
	require.Equal(t, 2, base.finds)
	require.NoError(t, cached.Insert(ctx, domain.CollectionPredictedTariffs,
		domain.PredictedTariff{Hour: 1, Date: "21-10-2024"}))

	mr.SetError("")
	require.Len(t, findTariffs(t, cached, "21-10-2024"), 2)
}

func TestCacheEmptyResultIsNotCached(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	cached, _ := newCached(t, base, 30*time.Second)

	require.Empty(t, findTariffs(t, cached, "21-10-2024"))

	// written by another process straight to the store
	require.NoError(t, base.Insert(ctx, domain.CollectionPredictedTariffs,
		domain.PredictedTariff{Hour: 0, Date: "21-10-2024"}))
	require.Len(t, findTariffs(t, cached, "21-10-2024"), 1)
}

func TestCacheEntryExpiresDespiteOtherReads(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	dates := []string{"21-10-2024", "22-10-2024", "23-10-2024", "24-10-2024", "25-10-2024", "26-10-2024"}
	for _, d := range dates {
		require.NoError(t, base.Insert(ctx, domain.CollectionPredictedTariffs, domain.PredictedTariff{Hour: 0, Date: d}))
	}
	cached, mr := newCached(t, base, 30*time.Second)
	require.Len(t, findTariffs(t, cached, dates[0]), 1)

	require.NoError(t, base.Insert(ctx, domain.CollectionPredictedTariffs,
		domain.PredictedTariff{Hour: 1, Date: dates[0]}))
	for _, d := range dates[1:] {
		mr.FastForward(20 * time.Second)
		require.Len(t, findTariffs(t, cached, d), 1)
	}

	require.Len(t, findTariffs(t, cached, dates[0]), 2)
}

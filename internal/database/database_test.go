package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

type stubStore struct {
	findFn func(ctx context.Context) error
	calls  int
}

func (s *stubStore) Find(ctx context.Context, _ string, _ domain.Filter, _ any) error {
	s.calls++
	if s.findFn != nil {
		return s.findFn(ctx)
	}
	return nil
}
func (s *stubStore) Insert(context.Context, string, ...any) error            { return nil }
func (s *stubStore) DeleteMany(context.Context, string, domain.Filter) error { return nil }
func (s *stubStore) Ping(context.Context) error                              { return nil }
func (s *stubStore) Close(context.Context) error                             { return nil }

func TestMemoryStoreFindPreservesOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Insert(ctx, domain.CollectionPredictedTariffs,
		domain.PredictedTariff{Hour: 2, Tariff: 5.2, Date: "21-10-2024"},
		domain.PredictedTariff{Hour: 0, Tariff: 5.0, Date: "22-10-2024"},
		domain.PredictedTariff{Hour: 1, Tariff: 5.1, Date: "21-10-2024"},
	))

	var got []domain.PredictedTariff
	require.NoError(t, s.Find(ctx, domain.CollectionPredictedTariffs, domain.Filter{"date": "21-10-2024"}, &got))
	require.Len(t, got, 2)
	require.Equal(t, 2, got[0].Hour)
	require.Equal(t, 1, got[1].Hour)
	require.NotEmpty(t, got[0].ID)
	require.NotEqual(t, got[0].ID, got[1].ID)
}

func TestMemoryStoreFilterIsExactStringEquality(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Insert(ctx, domain.CollectionPredictedTariffs, domain.PredictedTariff{Hour: 0, Date: "21-10-2024"}))

	for _, date := range []string{"21-10-24", "2024-10-21", " 21-10-2024"} {
		var got []domain.PredictedTariff
		require.NoError(t, s.Find(ctx, domain.CollectionPredictedTariffs, domain.Filter{"date": date}, &got))
		require.Empty(t, got, date)
	}
}

func TestMemoryStoreEmptyCollectionDecodesToEmptySlice(t *testing.T) {
	var got []domain.Savings
	require.NoError(t, NewMemoryStore().Find(context.Background(), domain.CollectionSavings, nil, &got))
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestMemoryStoreDeleteMany(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Insert(ctx, domain.CollectionSavings,
		domain.Savings{Hour: "0:00 - 1:00"}, domain.Savings{Hour: "1:00 - 2:00"}))

	require.NoError(t, s.DeleteMany(ctx, domain.CollectionSavings, domain.Filter{"hour": "0:00 - 1:00"}))
	var got []domain.Savings
	require.NoError(t, s.Find(ctx, domain.CollectionSavings, nil, &got))
	require.Len(t, got, 1)
	require.Equal(t, "1:00 - 2:00", got[0].Hour)

	require.NoError(t, s.DeleteMany(ctx, domain.CollectionSavings, nil))
	require.NoError(t, s.Find(ctx, domain.CollectionSavings, nil, &got))
	require.Empty(t, got)
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got []domain.Tariff
	require.ErrorIs(t, NewMemoryStore().Find(ctx, domain.CollectionTariffs, nil, &got), context.Canceled)
}

func TestBreakerOpensAndFailsFast(t *testing.T) {
	boom := errors.New("connection refused")
	stub := &stubStore{findFn: func(context.Context) error { return boom }}
	b := WithBreaker(stub)

	var out []domain.Tariff
	for i := 0; i < 6; i++ {
		require.ErrorIs(t, b.Find(context.Background(), domain.CollectionTariffs, nil, &out), boom)
	}

	err := b.Find(context.Background(), domain.CollectionTariffs, nil, &out)
	require.ErrorIs(t, err, ErrUnavailable)
	require.Equal(t, 6, stub.calls)
}

func TestWithTimeoutBoundsCalls(t *testing.T) {
	stub := &stubStore{findFn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	s := WithTimeout(stub, 10*time.Millisecond)

	var out []domain.Tariff
	require.ErrorIs(t, s.Find(context.Background(), domain.CollectionTariffs, nil, &out), context.DeadlineExceeded)
	require.Same(t, stub, WithTimeout(stub, 0))
}

func TestInstrumentPassesErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	s := Instrument(&stubStore{findFn: func(context.Context) error { return boom }})

	var out []domain.Tariff
	require.ErrorIs(t, s.Find(context.Background(), domain.CollectionTariffs, nil, &out), boom)
}

func TestWithCacheDisabled(t *testing.T) {
	stub := &stubStore{}
	require.Same(t, stub, WithCache(stub, nil, time.Minute))
}

func TestCacheFieldIsCanonical(t *testing.T) {
	require.Equal(t, "?", cacheField(nil))
	require.Equal(t, "?a=1&date=21-10-2024", cacheField(domain.Filter{"date": "21-10-2024", "a": "1"}))
}

func TestWhereClause(t *testing.T) {
	where, args := whereClause("tariffs", nil)
	require.Equal(t, "collection = $1", where)
	require.Equal(t, []any{"tariffs"}, args)

	where, args = whereClause("predicted_tariffs", domain.Filter{"date": "21-10-2024"})
	require.Equal(t, "collection = $1 AND doc->>($2::text) = $3", where)
	require.Equal(t, []any{"predicted_tariffs", "date", "21-10-2024"}, args)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := open(context.Background(), "cassandra")
	require.Error(t, err)
}

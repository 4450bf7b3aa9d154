package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/database"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/repository"
)

// countingStore wraps a MemoryStore, counts Find calls and can fail them.
type countingStore struct {
	*database.MemoryStore
	finds   int
	findErr error
}

func (s *countingStore) Find(ctx context.Context, collection string, filter domain.Filter, out any) error {
	s.finds++
	if s.findErr != nil {
		return s.findErr
	}
	return s.MemoryStore.Find(ctx, collection, filter, out)
}

func newRecords(t *testing.T, seed map[string][]any) (*Records, *countingStore) {
	t.Helper()
	store := &countingStore{MemoryStore: database.NewMemoryStore()}
	for collection, docs := range seed {
		require.NoError(t, store.Insert(context.Background(), collection, docs...))
	}
	return NewRecords(repository.New(store), "21-10-2024"), store
}

func TestTariffsOrderedByDecodedDate(t *testing.T) {
	recs, _ := newRecords(t, map[string][]any{
		domain.CollectionTariffs: {
			domain.Tariff{DateTime: "01-01-24 00:00", Value: 6},
			domain.Tariff{DateTime: "not a date", Value: 9},
			domain.Tariff{DateTime: "15-12-23 00:00", Value: 5},
			domain.Tariff{DateTime: "15-12-23 00:00", Value: 5.5},
		},
	})

	got, err := recs.Tariffs(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Equal(t, []float64{5, 5.5, 6, 9}, []float64{got[0].Value, got[1].Value, got[2].Value, got[3].Value})
	// stored strings are served unchanged
	require.Equal(t, "15-12-23 00:00", got[0].DateTime)
}

func TestEnergyDataTieBrokenByCreatedAt(t *testing.T) {
	early := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	late := early.Add(time.Minute)
	recs, _ := newRecords(t, map[string][]any{
		domain.CollectionEnergyData: {
			domain.EnergyReading{SendDate: "01-01-24 10:00", SolarPower: 2, CreatedAt: &late},
			domain.EnergyReading{SendDate: "01-01-24 10:00", SolarPower: 1, CreatedAt: &early},
			domain.EnergyReading{SendDate: "31-12-23 23:59", SolarPower: 0},
		},
	})

	got, err := recs.EnergyData(context.Background(), Query{})
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2}, []float64{got[0].SolarPower, got[1].SolarPower, got[2].SolarPower})
}

func TestPredictedTariffsFilteredAndOrderedByHour(t *testing.T) {
	recs, _ := newRecords(t, map[string][]any{
		domain.CollectionPredictedTariffs: {
			domain.PredictedTariff{Hour: 2, Tariff: 5.2, Date: "21-10-2024"},
			domain.PredictedTariff{Hour: 0, Tariff: 9, Date: "22-10-2024"},
			domain.PredictedTariff{Hour: 0, Tariff: 5.0, Date: "21-10-2024"},
			domain.PredictedTariff{Hour: 1, Tariff: 5.1, Date: "21-10-2024"},
		},
	})

	got, err := recs.PredictedTariffs(context.Background(), Query{Date: "21-10-2024", Empty: EmptyNotFound})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, rec := range got {
		require.Equal(t, i, rec.Hour)
		require.Equal(t, "21-10-2024", rec.Date)
	}
}

func TestPredictionKindsEmptyIsNotFound(t *testing.T) {
	recs, _ := newRecords(t, nil)
	ctx := context.Background()
	q := Query{Date: "21-10-2024", Empty: EmptyNotFound}

	_, err := recs.PredictedSolarEnergy(ctx, q)
	require.ErrorIs(t, err, ErrNoRecords)
	_, err = recs.PredictedTariffs(ctx, q)
	require.ErrorIs(t, err, ErrNoRecords)
	_, err = recs.PredictedApplianceConsumption(ctx, q)
	require.ErrorIs(t, err, ErrNoRecords)
	_, err = recs.Savings(ctx, Query{Empty: EmptyNotFound})
	require.ErrorIs(t, err, ErrNoRecords)
}

func TestOpenEndedKindsEmptyIsOK(t *testing.T) {
	recs, _ := newRecords(t, nil)
	ctx := context.Background()

	tariffs, err := recs.Tariffs(ctx, Query{Empty: EmptyOK})
	require.NoError(t, err)
	require.NotNil(t, tariffs)
	require.Empty(t, tariffs)

	consumptions, err := recs.Consumptions(ctx, Query{Empty: EmptyOK})
	require.NoError(t, err)
	require.Empty(t, consumptions)
}

func TestInvalidDateSkipsStore(t *testing.T) {
	recs, store := newRecords(t, map[string][]any{
		domain.CollectionPredictedTariffs: {domain.PredictedTariff{Hour: 0, Date: "21-10-2024"}},
	})

	for _, date := range []string{"21-10-24", "2024-10-21", "32-10-2024"} {
		_, err := recs.PredictedTariffs(context.Background(), Query{Date: date, Empty: EmptyNotFound})
		require.ErrorIs(t, err, ErrNoRecords, date)

		got, err := recs.PredictedTariffs(context.Background(), Query{Date: date, Empty: EmptyOK})
		require.NoError(t, err)
		require.Empty(t, got)
	}
	require.Zero(t, store.finds)
}

func TestStoreFailureIsNotAnEmptyResult(t *testing.T) {
	recs, store := newRecords(t, nil)
	store.findErr = errors.New("server selection timeout")

	_, err := recs.Tariffs(context.Background(), Query{Empty: EmptyOK})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoRecords)

	_, err = recs.PredictedSolarEnergy(context.Background(), Query{Date: "21-10-2024", Empty: EmptyNotFound})
	require.ErrorIs(t, err, store.findErr)
	require.NotErrorIs(t, err, ErrNoRecords)
}

func TestSavingsOrderedByStartHour(t *testing.T) {
	recs, _ := newRecords(t, map[string][]any{
		domain.CollectionSavings: {
			domain.Savings{Hour: "10:00 - 11:00"},
			domain.Savings{Hour: "whenever"},
			domain.Savings{Hour: "9:00 - 10:00"},
		},
	})

	got, err := recs.Savings(context.Background(), Query{Empty: EmptyNotFound})
	require.NoError(t, err)
	require.Equal(t, "9:00 - 10:00", got[0].Hour)
	require.Equal(t, "10:00 - 11:00", got[1].Hour)
	require.Equal(t, "whenever", got[2].Hour)
	require.Equal(t, "None", got[0].ScheduledDevice)
}

func TestResolveDate(t *testing.T) {
	now := time.Date(2024, 12, 31, 18, 0, 0, 0, time.UTC)

	require.Equal(t, "21-10-2024", ResolveDate("21-10-2024", now))
	require.Equal(t, "31-12-2024", ResolveDate("today", now))
	require.Equal(t, "01-01-2025", ResolveDate("Tomorrow", now))

	recs, _ := newRecords(t, nil)
	require.Equal(t, "21-10-2024", recs.ResolveDate(""))
	require.Equal(t, "22-10-2024", recs.ResolveDate("22-10-2024"))
	require.Equal(t, " 22-10-2024", recs.ResolveDate(" 22-10-2024"))
}

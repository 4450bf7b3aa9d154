package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/database"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

func TestSavingsDefaultScheduledDevice(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	// Stored without the field at all, as older optimizer runs did.
	require.NoError(t, store.Insert(ctx, domain.CollectionSavings, map[string]any{
		"hour": "0:00 - 1:00", "current_mode": "Normal",
	}))

	got, err := New(store).Savings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "None", got[0].ScheduledDevice)
	require.Zero(t, got[0].BatteryLevel)
}

func TestPredictedTariffsFilterByDate(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.Insert(ctx, domain.CollectionPredictedTariffs,
		domain.PredictedTariff{Hour: 0, Date: "21-10-2024"},
		domain.PredictedTariff{Hour: 0, Date: "22-10-2024"},
	))

	got, err := New(store).PredictedTariffs(ctx, "22-10-2024")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "22-10-2024", got[0].Date)
}

func TestReplaceSavings(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	repos := New(store)

	require.NoError(t, repos.ReplaceSavings(ctx, []domain.Savings{{Hour: "0:00 - 1:00"}, {Hour: "1:00 - 2:00"}}))
	require.NoError(t, repos.ReplaceSavings(ctx, []domain.Savings{{Hour: "5:00 - 6:00", ScheduledDevice: "Laptop (kWh)"}}))

	got, err := repos.Savings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "5:00 - 6:00", got[0].Hour)
	require.Equal(t, "Laptop (kWh)", got[0].ScheduledDevice)
}

func TestEmptyCollectionsAreNonNil(t *testing.T) {
	got, err := New(database.NewMemoryStore()).Tariffs(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestReplaceForecastOnlyTouchesDate(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	repos := New(store)
	require.NoError(t, store.Insert(ctx, domain.CollectionPredictedTariffs,
		domain.PredictedTariff{Hour: 0, Tariff: 1, Date: "20-10-2024"},
		domain.PredictedTariff{Hour: 0, Tariff: 2, Date: "21-10-2024"},
	))

	require.NoError(t, repos.ReplaceForecast(ctx, "21-10-2024",
		[]domain.PredictedTariff{{Hour: 0, Tariff: 3, Date: "21-10-2024"}, {Hour: 1, Tariff: 4, Date: "21-10-2024"}},
		nil,
		[]domain.PredictedApplianceConsumption{{Date: "21-10-2024"}},
	))

	got, err := repos.PredictedTariffs(ctx, "21-10-2024")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 3.0, got[0].Tariff)

	other, err := repos.PredictedTariffs(ctx, "20-10-2024")
	require.NoError(t, err)
	require.Len(t, other, 1)

	usage, err := repos.PredictedApplianceConsumption(ctx, "21-10-2024")
	require.NoError(t, err)
	require.Len(t, usage, 1)
}

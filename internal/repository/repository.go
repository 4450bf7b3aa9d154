package repository

import (
	"context"
	"fmt"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/database"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

// Repos decodes store documents into typed records. Defaulting happens here
// and nowhere else.
type Repos struct {
	store database.Store
}

func New(store database.Store) *Repos { return &Repos{store: store} }

func dateFilter(date string) domain.Filter {
	return domain.Filter{domain.FieldDate: date}
}

func find[T any](ctx context.Context, s database.Store, collection string, filter domain.Filter) ([]T, error) {
	out := []T{}
	if err := s.Find(ctx, collection, filter, &out); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r *Repos) Tariffs(ctx context.Context) ([]domain.Tariff, error) {
	return find[domain.Tariff](ctx, r.store, domain.CollectionTariffs, nil)
}

func (r *Repos) EnergyData(ctx context.Context) ([]domain.EnergyReading, error) {
	return find[domain.EnergyReading](ctx, r.store, domain.CollectionEnergyData, nil)
}

func (r *Repos) Consumptions(ctx context.Context) ([]domain.ApplianceConsumption, error) {
	return find[domain.ApplianceConsumption](ctx, r.store, domain.CollectionConsumptions, nil)
}

func (r *Repos) PredictedTariffs(ctx context.Context, date string) ([]domain.PredictedTariff, error) {
	return find[domain.PredictedTariff](ctx, r.store, domain.CollectionPredictedTariffs, dateFilter(date))
}

func (r *Repos) PredictedSolarEnergy(ctx context.Context, date string) ([]domain.PredictedSolarEnergy, error) {
	return find[domain.PredictedSolarEnergy](ctx, r.store, domain.CollectionPredictedSolarEnergy, dateFilter(date))
}

func (r *Repos) PredictedApplianceConsumption(ctx context.Context, date string) ([]domain.PredictedApplianceConsumption, error) {
	return find[domain.PredictedApplianceConsumption](ctx, r.store, domain.CollectionPredictedApplianceConsumption, dateFilter(date))
}

func (r *Repos) Savings(ctx context.Context) ([]domain.Savings, error) {
	out, err := find[domain.Savings](ctx, r.store, domain.CollectionSavings, nil)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].ApplyDefaults()
	}
	return out, nil
}

func (r *Repos) InsertReading(ctx context.Context, rd *domain.EnergyReading) error {
	if err := r.store.Insert(ctx, domain.CollectionEnergyData, rd); err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// ReplaceSavings swaps the whole savings collection for rows.
func (r *Repos) ReplaceSavings(ctx context.Context, rows []domain.Savings) error {
	if err := r.store.DeleteMany(ctx, domain.CollectionSavings, nil); err != nil {
		return fmt.Errorf("clear savings: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	docs := make([]any, len(rows))
	for i := range rows {
		rows[i].ApplyDefaults()
		docs[i] = rows[i]
	}
	if err := r.store.Insert(ctx, domain.CollectionSavings, docs...); err != nil {
		return fmt.Errorf("insert savings: %w", err)
	}
	return nil
}

// Ping reports whether the backing store is reachable.
func (r *Repos) Ping(ctx context.Context) error { return r.store.Ping(ctx) }

// ReplaceForecast swaps every prediction stored for date with the given rows.
func (r *Repos) ReplaceForecast(ctx context.Context, date string, tariffs []domain.PredictedTariff, solar []domain.PredictedSolarEnergy, usage []domain.PredictedApplianceConsumption) error {
	batches := []struct {
		collection string
		docs       []any
	}{
		{domain.CollectionPredictedTariffs, toDocs(tariffs)},
		{domain.CollectionPredictedSolarEnergy, toDocs(solar)},
		{domain.CollectionPredictedApplianceConsumption, toDocs(usage)},
	}
	for _, b := range batches {
		if err := r.store.DeleteMany(ctx, b.collection, dateFilter(date)); err != nil {
			return fmt.Errorf("clear %s for %s: %w", b.collection, date, err)
		}
		if len(b.docs) == 0 {
			continue
		}
		if err := r.store.Insert(ctx, b.collection, b.docs...); err != nil {
			return fmt.Errorf("insert %s for %s: %w", b.collection, date, err)
		}
	}
	return nil
}

func toDocs[T any](rows []T) []any {
	docs := make([]any, len(rows))
	for i, row := range rows {
		docs[i] = row
	}
	return docs
}

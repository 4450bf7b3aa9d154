package service

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/repository"
)

// ErrNoRecords is returned for an empty result under EmptyNotFound.
var ErrNoRecords = errors.New("no records found")

// EmptyPolicy decides what an empty result means for an endpoint.
type EmptyPolicy int

const (
	// EmptyOK returns an empty list.
	EmptyOK EmptyPolicy = iota
	// EmptyNotFound returns ErrNoRecords.
	EmptyNotFound
)

// Query selects records of one kind. Date only applies to prediction kinds
// and must already be resolved (see Records.ResolveDate).
type Query struct {
	Date  string
	Empty EmptyPolicy
}

// Records is the read path behind every dashboard endpoint: it builds the
// filter, fetches, orders in memory and applies the empty-result policy.
type Records struct {
	repos       *repository.Repos
	defaultDate string
	now         func() time.Time
}

func NewRecords(repos *repository.Repos, defaultDate string) *Records {
	return &Records{repos: repos, defaultDate: defaultDate, now: time.Now}
}

// ResolveDate substitutes the configured default when raw is empty. A
// caller-supplied date is used verbatim; the default may be a literal
// DD-MM-YYYY date or "today"/"tomorrow".
func (s *Records) ResolveDate(raw string) string {
	if raw != "" {
		return raw
	}
	return ResolveDate(s.defaultDate, s.now())
}

// ResolveDate turns a date setting into a DD-MM-YYYY string relative to now.
func ResolveDate(setting string, now time.Time) string {
	switch strings.ToLower(strings.TrimSpace(setting)) {
	case "today":
		return domain.FormatPredictionDate(now)
	case "tomorrow":
		return domain.FormatPredictionDate(now.AddDate(0, 0, 1))
	default:
		return strings.TrimSpace(setting)
	}
}

func applyPolicy[T any](items []T, p EmptyPolicy) ([]T, error) {
	if len(items) == 0 {
		if p == EmptyNotFound {
			return nil, ErrNoRecords
		}
		return []T{}, nil
	}
	return items, nil
}

// listByDate fetches a prediction kind. A date that does not match the stored
// layout can never match, so the store is not queried for it.
func listByDate[T any](ctx context.Context, q Query, fetch func(context.Context, string) ([]T, error)) ([]T, error) {
	if !ValidPredictionDate(q.Date) {
		return applyPolicy[T](nil, q.Empty)
	}
	items, err := fetch(ctx, q.Date)
	if err != nil {
		return nil, err
	}
	return applyPolicy(items, q.Empty)
}

func (s *Records) Tariffs(ctx context.Context, q Query) ([]domain.Tariff, error) {
	items, err := s.repos.Tariffs(ctx)
	if err != nil {
		return nil, err
	}
	orderByDate(items, domain.Tariff.When, nil)
	return applyPolicy(items, q.Empty)
}

func (s *Records) EnergyData(ctx context.Context, q Query) ([]domain.EnergyReading, error) {
	items, err := s.repos.EnergyData(ctx)
	if err != nil {
		return nil, err
	}
	orderByDate(items, domain.EnergyReading.When, func(r domain.EnergyReading) time.Time {
		if r.CreatedAt == nil {
			return time.Time{}
		}
		return *r.CreatedAt
	})
	return applyPolicy(items, q.Empty)
}

func (s *Records) Consumptions(ctx context.Context, q Query) ([]domain.ApplianceConsumption, error) {
	items, err := s.repos.Consumptions(ctx)
	if err != nil {
		return nil, err
	}
	return applyPolicy(items, q.Empty)
}

func (s *Records) PredictedTariffs(ctx context.Context, q Query) ([]domain.PredictedTariff, error) {
	items, err := listByDate(ctx, q, s.repos.PredictedTariffs)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(items, func(a, b domain.PredictedTariff) int { return cmp.Compare(a.Hour, b.Hour) })
	return items, nil
}

func (s *Records) PredictedSolarEnergy(ctx context.Context, q Query) ([]domain.PredictedSolarEnergy, error) {
	items, err := listByDate(ctx, q, s.repos.PredictedSolarEnergy)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(items, func(a, b domain.PredictedSolarEnergy) int { return cmp.Compare(a.Hour, b.Hour) })
	return items, nil
}

func (s *Records) PredictedApplianceConsumption(ctx context.Context, q Query) ([]domain.PredictedApplianceConsumption, error) {
	return listByDate(ctx, q, s.repos.PredictedApplianceConsumption)
}

func (s *Records) Savings(ctx context.Context, q Query) ([]domain.Savings, error) {
	items, err := s.repos.Savings(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(items, func(a, b domain.Savings) int {
		ha, okA := domain.StartHour(a.Hour)
		hb, okB := domain.StartHour(b.Hour)
		return compareKeys(ha, okA, hb, okB, cmp.Compare[int])
	})
	return applyPolicy(items, q.Empty)
}

// Ping reports whether the store behind the records is reachable.
func (s *Records) Ping(ctx context.Context) error { return s.repos.Ping(ctx) }

// compareKeys orders valid keys by cmpFn and puts invalid ones last.
func compareKeys[K any](a K, okA bool, b K, okB bool, cmpFn func(K, K) int) int {
	switch {
	case okA && okB:
		return cmpFn(a, b)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}

type keyed[T any] struct {
	rec T
	at  time.Time
	ok  bool
	tie time.Time
}

// orderByDate stably sorts items by their decoded date, then by tie when given.
// Records whose date does not decode keep their relative order after the rest.
func orderByDate[T any](items []T, when func(T) (time.Time, error), tie func(T) time.Time) {
	ks := make([]keyed[T], len(items))
	for i, it := range items {
		at, err := when(it)
		ks[i] = keyed[T]{rec: it, at: at, ok: err == nil}
		if tie != nil {
			ks[i].tie = tie(it)
		}
	}

	slices.SortStableFunc(ks, func(a, b keyed[T]) int {
		if c := compareKeys(a.at, a.ok, b.at, b.ok, time.Time.Compare); c != 0 || !a.ok || !b.ok {
			return c
		}
		return a.tie.Compare(b.tie)
	})

	for i := range ks {
		items[i] = ks[i].rec
	}
}

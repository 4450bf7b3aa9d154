package database

import (
	"context"
	"time"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/metrics"
)

type instrumentedStore struct {
	next Store
}

// Instrument records operation counts and latency for next.
func Instrument(next Store) Store { return &instrumentedStore{next: next} }

func observe(collection, op string, start time.Time, err error) {
	metrics.StoreLatency.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
	metrics.StoreOps.WithLabelValues(collection, op, metrics.Outcome(err)).Inc()
}

func (s *instrumentedStore) Find(ctx context.Context, collection string, filter domain.Filter, out any) error {
	start := time.Now()
	err := s.next.Find(ctx, collection, filter, out)
	observe(collection, "find", start, err)
	return err
}

func (s *instrumentedStore) Insert(ctx context.Context, collection string, docs ...any) error {
	start := time.Now()
	err := s.next.Insert(ctx, collection, docs...)
	observe(collection, "insert", start, err)
	return err
}

func (s *instrumentedStore) DeleteMany(ctx context.Context, collection string, filter domain.Filter) error {
	start := time.Now()
	err := s.next.DeleteMany(ctx, collection, filter)
	observe(collection, "delete", start, err)
	return err
}

func (s *instrumentedStore) Ping(ctx context.Context) error { return s.next.Ping(ctx) }

func (s *instrumentedStore) Close(ctx context.Context) error { return s.next.Close(ctx) }

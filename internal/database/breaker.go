package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

// BreakerStore fails fast while the wrapped store keeps failing. It never
// retries and never turns a failure into an empty result.
type BreakerStore struct {
	next    Store
	circuit *gobreaker.CircuitBreaker
}

func WithBreaker(next Store) *BreakerStore {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "document-store",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit state changed")
		},
	})
	return &BreakerStore{next: next, circuit: cb}
}

func (b *BreakerStore) run(fn func() error) error {
	_, err := b.circuit.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (b *BreakerStore) Find(ctx context.Context, collection string, filter domain.Filter, out any) error {
	return b.run(func() error { return b.next.Find(ctx, collection, filter, out) })
}

func (b *BreakerStore) Insert(ctx context.Context, collection string, docs ...any) error {
	return b.run(func() error { return b.next.Insert(ctx, collection, docs...) })
}

func (b *BreakerStore) DeleteMany(ctx context.Context, collection string, filter domain.Filter) error {
	return b.run(func() error { return b.next.DeleteMany(ctx, collection, filter) })
}

func (b *BreakerStore) Ping(ctx context.Context) error {
	return b.run(func() error { return b.next.Ping(ctx) })
}

func (b *BreakerStore) Close(ctx context.Context) error { return b.next.Close(ctx) }

package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

// ErrUnavailable is returned when the store is known to be down and the call
// was rejected without reaching it.
var ErrUnavailable = errors.New("document store unavailable")

// Store is a minimal document store: named collections of JSON-like documents
// with exact string-equality filtering.
type Store interface {
	// Find decodes every document of collection matching filter into out, which
	// must be a pointer to a slice. Documents come back in store order.
	Find(ctx context.Context, collection string, filter domain.Filter, out any) error
	Insert(ctx context.Context, collection string, docs ...any) error
	DeleteMany(ctx context.Context, collection string, filter domain.Filter) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// filterKeys returns the filter's keys in a stable order so that generated
// queries and cache keys are deterministic.
func filterKeys(f domain.Filter) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// toDocument converts a record into its generic document form and makes sure
// it carries an _id.
func toDocument(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("document is not an object: %w", err)
	}
	if id, _ := doc["_id"].(string); id == "" {
		doc["_id"] = uuid.NewString()
	}
	return doc, nil
}

func matches(doc map[string]any, f domain.Filter) bool {
	for k, want := range f {
		got, ok := doc[k].(string)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// decodeAll turns a list of JSON documents into out.
func decodeAll(docs []json.RawMessage, out any) error {
	if docs == nil {
		docs = []json.RawMessage{}
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode documents: %w", err)
	}
	return nil
}

type timeoutStore struct {
	next    Store
	timeout time.Duration
}

// WithTimeout bounds every call to next by d. A zero d disables the bound.
func WithTimeout(next Store, d time.Duration) Store {
	if d <= 0 {
		return next
	}
	return &timeoutStore{next: next, timeout: d}
}

func (s *timeoutStore) Find(ctx context.Context, collection string, filter domain.Filter, out any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Find(ctx, collection, filter, out)
}

func (s *timeoutStore) Insert(ctx context.Context, collection string, docs ...any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Insert(ctx, collection, docs...)
}

func (s *timeoutStore) DeleteMany(ctx context.Context, collection string, filter domain.Filter) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.DeleteMany(ctx, collection, filter)
}

func (s *timeoutStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Ping(ctx)
}

func (s *timeoutStore) Close(ctx context.Context) error { return s.next.Close(ctx) }

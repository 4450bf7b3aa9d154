package database

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

// MemoryStore is a concurrency-safe in-memory Store. Documents keep their
// insertion order.
type MemoryStore struct {
	mu sync.RWMutex

	// key: collection, value: documents in insertion order
	data map[string][]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]map[string]any)}
}

func (s *MemoryStore) Find(ctx context.Context, collection string, filter domain.Filter, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	var found []json.RawMessage
	for _, doc := range s.data[collection] {
		if !matches(doc, filter) {
			continue
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			s.mu.RUnlock()
			return err
		}
		found = append(found, raw)
	}
	s.mu.RUnlock()

	return decodeAll(found, out)
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, docs ...any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	converted := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		doc, err := toDocument(d)
		if err != nil {
			return err
		}
		converted = append(converted, doc)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[collection] = append(s.data[collection], converted...)
	return nil
}

func (s *MemoryStore) DeleteMany(ctx context.Context, collection string, filter domain.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.data[collection][:0]
	for _, doc := range s.data[collection] {
		if !matches(doc, filter) {
			kept = append(kept, doc)
		}
	}
	s.data[collection] = kept
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close(context.Context) error { return nil }

package cart

import (
	"context"
	"sync"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[string][]Line
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string][]Line{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Get(ctx context.Context, cartID string) ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.m[cartID]
	out := make([]Line, len(lines))
	copy(out, lines)
	return out, nil
}

func (s *MemStore) Append(ctx context.Context, cartID string, l Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[cartID] = append(s.m[cartID], l)
	return nil
}

func (s *MemStore) RemoveProduct(ctx context.Context, cartID string, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.m[cartID]
	kept := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	s.m[cartID] = kept
	return nil
}

func (s *MemStore) Clear(ctx context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, cartID)
	return nil
}

package catalog

import (
	"context"
	"sort"
	"sync"
)

type MemStore struct {
	mu         sync.RWMutex
	m          map[int64]Product
	categories []string
}

func NewMemStore() *MemStore {
	s := &MemStore{m: map[int64]Product{}}

	for _, p := range []Product{
		{ID: 1, Title: "Keyboard", PriceCents: 4990, ImageURL: "https://picsum.photos/seed/keyboard/400/300"},
		{ID: 2, Title: "Mouse", PriceCents: 1990, ImageURL: "https://picsum.photos/seed/mouse/400/300"},
		{ID: 3, Title: "Monitor", PriceCents: 18990, ImageURL: "https://picsum.photos/seed/monitor/400/300"},
		{ID: 4, Title: "USB-C Hub", PriceCents: 3490, ImageURL: "https://picsum.photos/seed/hub/400/300"},
		{ID: 5, Title: "Webcam", PriceCents: 5990, ImageURL: "https://picsum.photos/seed/webcam/400/300"},
		{ID: 6, Title: "Headset", PriceCents: 7990, ImageURL: "https://picsum.photos/seed/headset/400/300"},
	} {
		s.m[p.ID] = p
	}

	s.categories = []string{
		"Keyboards & Mice",
		"Displays",
		"Audio & Video",
		"Accessories",
	}

	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListSortedByID(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func (s *MemStore) Categories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

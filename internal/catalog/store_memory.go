package catalog

import (
	"context"
	"sync"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[int64]string
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[int64]string{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Get(ctx context.Context, id int64) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, ok := s.m[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return Product{ID: id, Name: name}, nil
}

func (s *MemStore) Put(ctx context.Context, p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[p.ID] = p.Name
	return nil
}

func (s *MemStore) Scan(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for id, name := range s.m {
		out = append(out, Product{ID: id, Name: name})
	}
	return out, nil
}

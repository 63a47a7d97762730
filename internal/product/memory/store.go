// Package memory keeps products in process memory. It backs tests and local runs
// and enforces the same version check as the database store.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"productservice/internal/product"
)

type Store struct {
	mu    sync.RWMutex
	m     map[string]product.Product
	order []string
	now   func() time.Time
}

func New() *Store {
	return &Store{m: make(map[string]product.Product), now: time.Now}
}

// Seed stores products as-is, keeping their versions. Intended for tests.
func (s *Store) Seed(products ...product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		if _, ok := s.m[p.ID]; !ok {
			s.order = append(s.order, p.ID)
		}
		s.m[p.ID] = p
	}
}

func (s *Store) Create(_ context.Context, p product.Product) (*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[p.ID]; ok {
		return nil, fmt.Errorf("product %s already exists: %w", p.ID, product.ErrInvalidInput)
	}
	now := s.now().UTC()
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	s.m[p.ID] = p
	s.order = append(s.order, p.ID)
	return &p, nil
}

func (s *Store) FindByID(_ context.Context, id string) (*product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, product.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) Save(_ context.Context, p product.Product) (*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.m[p.ID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", p.ID, product.ErrNotFound)
	}
	if cur.Version != p.Version {
		return nil, fmt.Errorf("product %s at version %d, have %d: %w", p.ID, cur.Version, p.Version, product.ErrVersionConflict)
	}
	p.Version++
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = s.now().UTC()
	s.m[p.ID] = p
	return &p, nil
}

func (s *Store) List(_ context.Context) ([]product.Product, error) {
	return s.filter(func(product.Product) bool { return true }), nil
}

func (s *Store) FindByCategory(_ context.Context, category string) ([]product.Product, error) {
	return s.filter(func(p product.Product) bool { return p.Type == category }), nil
}

func (s *Store) FindByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return s.filter(func(p product.Product) bool {
		_, ok := want[p.ID]
		return ok
	}), nil
}

// filter returns matching products in insertion order.
func (s *Store) filter(keep func(product.Product) bool) []product.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]product.Product, 0, len(s.order))
	for _, id := range s.order {
		if p := s.m[id]; keep(p) {
			out = append(out, p)
		}
	}
	return out
}

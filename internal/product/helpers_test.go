package product_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"productservice/internal/product"
	"productservice/internal/product/memory"

	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// spyStore counts writes and can inject lookup failures or a competing write.
type spyStore struct {
	*memory.Store

	mu        sync.Mutex
	saves     int
	failFind  map[string]error
	interfere map[string]func(*memory.Store)
}

func newSpyStore(products ...product.Product) *spyStore {
	m := memory.New()
	m.Seed(products...)
	return &spyStore{
		Store:     m,
		failFind:  map[string]error{},
		interfere: map[string]func(*memory.Store){},
	}
}

func (s *spyStore) FindByID(ctx context.Context, id string) (*product.Product, error) {
	s.mu.Lock()
	err := s.failFind[id]
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.Store.FindByID(ctx, id)
}

func (s *spyStore) Save(ctx context.Context, p product.Product) (*product.Product, error) {
	s.mu.Lock()
	s.saves++
	hook := s.interfere[p.ID]
	delete(s.interfere, p.ID)
	s.mu.Unlock()
	if hook != nil {
		hook(s.Store)
	}
	return s.Store.Save(ctx, p)
}

func (s *spyStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *spyStore) mustGet(t *testing.T, id string) product.Product {
	t.Helper()
	p, err := s.Store.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get %s: %v", id, err)
	}
	return *p
}

func newStockHandler(store product.Store) *product.StockHandler {
	return product.NewStockHandler(store, zap.NewNop(), noop.NewTracerProvider().Tracer("test"))
}

func stocked(id string, stock int, available bool) product.Product {
	return product.Product{ID: id, Name: fmt.Sprintf("product %s", id), Stock: stock, Available: available, Version: 1}
}

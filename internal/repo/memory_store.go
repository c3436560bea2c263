package repo

import (
	"context"
	"sync"

	"github.com/apparelops/lot-tracker/internal/models"
)

// MemorySnapshotStore is an in-memory implementation of SnapshotStore.
type MemorySnapshotStore struct {
	mu       sync.Mutex
	products []models.Product
}

// NewMemorySnapshotStore creates a new instance of MemorySnapshotStore.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

func (s *MemorySnapshotStore) Load(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *MemorySnapshotStore) Save(ctx context.Context, products []models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make([]models.Product, len(products))
	copy(s.products, products)
	return nil
}

// Clear drops the stored collection.
func (s *MemorySnapshotStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
}

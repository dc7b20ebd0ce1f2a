package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"bazaar/internal/service/catalog/domain"
)

// MemoryItemRepository backs the catalog when no MySQL DSN is configured.
type MemoryItemRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Item
}

func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{items: make(map[string]domain.Item)}
}

func (r *MemoryItemRepository) Create(_ context.Context, item domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, item.ID)
	}
	r.items[item.ID] = item
	return nil
}

func (r *MemoryItemRepository) FindByID(_ context.Context, id string) (domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return item, nil
}

func (r *MemoryItemRepository) Update(_ context.Context, item domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, item.ID)
	}
	r.items[item.ID] = item
	return nil
}

func (r *MemoryItemRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	delete(r.items, id)
	return nil
}

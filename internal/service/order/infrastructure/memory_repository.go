package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bazaar/internal/service/order/domain"
)

// MemoryOrderRepository keeps orders in process memory. Used when no MySQL
// DSN is configured (local dev) and by tests.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[string]*domain.Order)}
}

func (r *MemoryOrderRepository) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("%w: order %s already exists", domain.ErrConflict, order.ID)
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *MemoryOrderRepository) Save(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; !exists {
		return fmt.Errorf("%w: order %s", domain.ErrNotFound, order.ID)
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *MemoryOrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	return cloneOrder(order), nil
}

func (r *MemoryOrderRepository) FindByOwner(_ context.Context, ownerID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var orders []*domain.Order
	for _, o := range r.orders {
		if o.OwnerID == ownerID {
			orders = append(orders, cloneOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
	return orders, nil
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Lines = append([]domain.OrderLine(nil), o.Lines...)
	return &clone
}

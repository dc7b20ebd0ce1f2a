package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"bazaar/internal/service/inventory/domain"
)

// MemoryLedger is the in-process ledger used for local dev and tests. The
// mutex makes each check-and-mutate a single indivisible step, matching the
// conditional-update contract of the database-backed implementations.
type MemoryLedger struct {
	mu    sync.Mutex
	stock map[string]int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{stock: make(map[string]int)}
}

func (l *MemoryLedger) Create(_ context.Context, itemID string, quantity int) (domain.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.stock[itemID]; exists {
		return domain.Record{}, fmt.Errorf("%w: %s", domain.ErrAlreadyExists, itemID)
	}
	l.stock[itemID] = quantity
	return domain.Record{ItemID: itemID, Quantity: quantity}, nil
}

func (l *MemoryLedger) Get(_ context.Context, itemID string) (domain.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	qty, ok := l.stock[itemID]
	if !ok {
		return domain.Record{}, fmt.Errorf("%w: %s", domain.ErrNotFound, itemID)
	}
	return domain.Record{ItemID: itemID, Quantity: qty}, nil
}

func (l *MemoryLedger) TryDecrement(_ context.Context, itemID string, qty int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, ok := l.stock[itemID]
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrNotFound, itemID)
	}
	if current < qty {
		return false, nil
	}
	l.stock[itemID] = current - qty
	return true, nil
}

func (l *MemoryLedger) Increment(_ context.Context, itemID string, qty int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, ok := l.stock[itemID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrNotFound, itemID)
	}
	l.stock[itemID] = current + qty
	return current + qty, nil
}

package infrastructure

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bazaar/internal/service/inventory/domain"
)

func TestMemoryLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("decrement is conditional on sufficient stock", func(t *testing.T) {
		ledger := NewMemoryLedger()
		if _, err := ledger.Create(ctx, "apple", 5); err != nil {
			t.Fatalf("Create: %v", err)
		}

		ok, err := ledger.TryDecrement(ctx, "apple", 3)
		if err != nil || !ok {
			t.Fatalf("TryDecrement(3) = %v, %v, want accepted", ok, err)
		}
		ok, err = ledger.TryDecrement(ctx, "apple", 3)
		if err != nil {
			t.Fatalf("TryDecrement: %v", err)
		}
		if ok {
			t.Fatalf("decrement below zero was accepted")
		}
		record, err := ledger.Get(ctx, "apple")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if record.Quantity != 2 {
			t.Errorf("quantity = %d, want 2", record.Quantity)
		}
	})

	t.Run("missing records are not found, never created", func(t *testing.T) {
		ledger := NewMemoryLedger()

		if _, err := ledger.TryDecrement(ctx, "ghost", 1); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("TryDecrement err = %v, want ErrNotFound", err)
		}
		if _, err := ledger.Increment(ctx, "ghost", 1); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Increment err = %v, want ErrNotFound", err)
		}
		if _, err := ledger.Get(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Get err = %v, want ErrNotFound", err)
		}
	})

	t.Run("duplicate create is rejected", func(t *testing.T) {
		ledger := NewMemoryLedger()
		if _, err := ledger.Create(ctx, "apple", 5); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := ledger.Create(ctx, "apple", 5); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Errorf("err = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("increment returns the new quantity", func(t *testing.T) {
		ledger := NewMemoryLedger()
		if _, err := ledger.Create(ctx, "apple", 5); err != nil {
			t.Fatalf("Create: %v", err)
		}
		newQty, err := ledger.Increment(ctx, "apple", 3)
		if err != nil {
			t.Fatalf("Increment: %v", err)
		}
		if newQty != 8 {
			t.Errorf("new quantity = %d, want 8", newQty)
		}
	})
}

// Stock must never go negative no matter how decrements interleave, and
// the number of accepted decrements must exactly account for the stock
// that disappeared.
func TestMemoryLedgerConcurrentDecrements(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()

	const initial = 50
	const workers = 100
	if _, err := ledger.Create(ctx, "apple", initial); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := ledger.TryDecrement(ctx, "apple", 3)
			if err != nil {
				t.Errorf("TryDecrement: %v", err)
				return
			}
			if ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	record, err := ledger.Get(ctx, "apple")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record.Quantity < 0 {
		t.Fatalf("quantity went negative: %d", record.Quantity)
	}
	if got := initial - accepted*3; record.Quantity != got {
		t.Errorf("quantity = %d, want %d (%d accepted decrements)", record.Quantity, got, accepted)
	}
}

package application

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"

	"bazaar/internal/service/inventory/domain"
	"bazaar/internal/service/inventory/infrastructure"
)

func newTestService(t *testing.T) (*Service, domain.Ledger) {
	t.Helper()
	ledger := infrastructure.NewMemoryLedger()
	return NewService(ledger, otel.Tracer("test")), ledger
}

func TestServiceValidation(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	t.Run("create rejects blank item ids", func(t *testing.T) {
		if _, err := service.Create(ctx, "", 5); !errors.Is(err, domain.ErrInvalidItemID) {
			t.Errorf("err = %v, want ErrInvalidItemID", err)
		}
	})

	t.Run("create rejects negative quantities", func(t *testing.T) {
		if _, err := service.Create(ctx, "apple", -1); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Errorf("err = %v, want ErrInvalidQuantity", err)
		}
	})

	t.Run("decrement and increment reject non-positive quantities", func(t *testing.T) {
		if _, err := service.TryDecrement(ctx, "apple", 0); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Errorf("TryDecrement err = %v, want ErrInvalidQuantity", err)
		}
		if _, err := service.Increment(ctx, "apple", -3); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Errorf("Increment err = %v, want ErrInvalidQuantity", err)
		}
	})
}

func TestServiceDelegation(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.Create(ctx, "apple", 5); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := service.TryDecrement(ctx, "apple", 2)
	if err != nil || !ok {
		t.Fatalf("TryDecrement = %v, %v, want accepted", ok, err)
	}

	ok, err = service.TryDecrement(ctx, "apple", 10)
	if err != nil {
		t.Fatalf("TryDecrement: %v", err)
	}
	if ok {
		t.Fatalf("over-decrement was accepted")
	}

	newQty, err := service.Increment(ctx, "apple", 4)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if newQty != 7 {
		t.Errorf("new quantity = %d, want 7", newQty)
	}

	record, err := service.Get(ctx, "apple")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record.Quantity != 7 {
		t.Errorf("quantity = %d, want 7", record.Quantity)
	}
}

package port

import "context"

// InventoryLedger is the outbound port to the atomic inventory counter.
//
// TryDecrement returning false means insufficient stock, which is a normal
// outcome and distinct from domain.ErrNotFound (the item record itself is
// absent). Both operations are single conditional updates on the backing
// store; the orchestrator never reads-then-writes stock itself.
type InventoryLedger interface {
	// TryDecrement reduces the item's quantity by qty iff quantity >= qty.
	TryDecrement(ctx context.Context, itemID string, qty int) (bool, error)

	// Increment restores stock for a known item and returns the new quantity.
	// It never creates a record; absent items yield domain.ErrNotFound.
	Increment(ctx context.Context, itemID string, qty int) (int, error)
}

package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound: no inventory record exists for the item. Distinct from an
	// insufficient-stock decrement, which is a normal false result.
	ErrNotFound = errors.New("inventory record not found")
	// ErrInvalidQuantity: non-positive quantity in a request.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidItemID: blank item id in a request.
	ErrInvalidItemID = errors.New("item id required")
	// ErrAlreadyExists: seeding an item that already has a record.
	ErrAlreadyExists = errors.New("inventory record already exists")
)

// Record is the per-item available quantity. Quantity is never observed
// negative.
type Record struct {
	ItemID   string
	Quantity int
}

// Ledger is the conditional counter store. TryDecrement and Increment for a
// given item are linearizable with respect to each other: every
// implementation performs its read-check-write as one indivisible operation
// against the backing store, never a separate read followed by a write.
type Ledger interface {
	// Create seeds a record with an initial quantity.
	Create(ctx context.Context, itemID string, quantity int) (Record, error)

	// Get returns the current record, or ErrNotFound.
	Get(ctx context.Context, itemID string) (Record, error)

	// TryDecrement reduces quantity by qty iff quantity >= qty. A false
	// result means insufficient stock; ErrNotFound means no record exists.
	TryDecrement(ctx context.Context, itemID string, qty int) (bool, error)

	// Increment adds qty and returns the new quantity. It never creates a
	// record: absent items yield ErrNotFound.
	Increment(ctx context.Context, itemID string, qty int) (int, error)
}

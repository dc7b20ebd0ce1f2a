package domain

import "context"

// OrderRepository is the order store port. It lives in the domain layer and
// is implemented by the infrastructure layer.
type OrderRepository interface {
	// Create persists a brand-new order.
	Create(ctx context.Context, order *Order) error

	// Save persists mutations to an existing order. Line edits replace the
	// stored line set in place; status only ever moves forward.
	Save(ctx context.Context, order *Order) error

	// FindByID returns ErrNotFound when no such order exists.
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByOwner returns the owner's orders, empty slice when there are none.
	FindByOwner(ctx context.Context, ownerID string) ([]*Order, error)
}

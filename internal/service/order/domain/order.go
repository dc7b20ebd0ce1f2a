package domain

import (
	"fmt"
	"time"
)

// OrderLine is one priced line of an order. Quantity and UnitPrice are
// snapshotted when the line is priced and never recomputed from the catalog.
type OrderLine struct {
	ItemID    string
	Quantity  int
	UnitPrice float64
}

// Order is the aggregate root. TotalPrice is always derived from Lines and
// never accepted from a caller.
type Order struct {
	ID         string
	OwnerID    string
	Lines      []OrderLine
	TotalPrice float64
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewOrder creates an order in CREATED state from fully priced lines.
func NewOrder(id, ownerID string, lines []OrderLine) (*Order, error) {
	if id == "" || ownerID == "" {
		return nil, fmt.Errorf("%w: order id and owner are required", ErrInvalid)
	}
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Order{
		ID:         id,
		OwnerID:    ownerID,
		Lines:      lines,
		TotalPrice: computeTotal(lines),
		Status:     StatusCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ValidateLines rejects empty line lists, blank item ids and non-positive
// quantities.
func ValidateLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: order must contain at least one line", ErrInvalid)
	}
	for _, l := range lines {
		if l.ItemID == "" {
			return fmt.Errorf("%w: line item id is required", ErrInvalid)
		}
		if l.Quantity < 1 {
			return fmt.Errorf("%w: line quantity must be at least 1", ErrInvalid)
		}
	}
	return nil
}

// MarkPaid transitions the order to PAID.
func (o *Order) MarkPaid() error {
	return o.transition(StatusPaid)
}

// Complete transitions the order to COMPLETED.
func (o *Order) Complete() error {
	return o.transition(StatusCompleted)
}

// Cancel transitions the order to CANCELLED. Cancelling an already cancelled
// order is the caller's idempotent no-op case, not a transition.
func (o *Order) Cancel() error {
	return o.transition(StatusCancelled)
}

// ReplaceLines swaps the line set and recomputes the total. Only permitted
// while the order is still CREATED.
func (o *Order) ReplaceLines(lines []OrderLine) error {
	if o.Status != StatusCreated {
		return fmt.Errorf("%w: only CREATED orders can be updated, order is %s", ErrConflict, o.Status)
	}
	if err := ValidateLines(lines); err != nil {
		return err
	}
	o.Lines = lines
	o.TotalPrice = computeTotal(lines)
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (o *Order) transition(next Status) error {
	if !o.Status.CanTransition(next) {
		return fmt.Errorf("%w: cannot transition order from %s to %s", ErrConflict, o.Status, next)
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func computeTotal(lines []OrderLine) float64 {
	var total float64
	for _, l := range lines {
		total += float64(l.Quantity) * l.UnitPrice
	}
	return total
}

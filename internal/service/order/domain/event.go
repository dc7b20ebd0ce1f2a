package domain

import "time"

// EventLine is the wire form of an order line inside a lifecycle event.
type EventLine struct {
	ItemID    string  `json:"itemId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// OrderEvent is published on every order status transition. Messages are
// keyed by OrderID so downstream consumers can partition per order; ordering
// across orders is not guaranteed.
type OrderEvent struct {
	OrderID    string      `json:"orderId"`
	OwnerID    string      `json:"ownerId"`
	Lines      []EventLine `json:"lines"`
	TotalPrice float64     `json:"totalPrice"`
	Status     Status      `json:"status"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// NewOrderEvent snapshots an order into its lifecycle event form.
func NewOrderEvent(o *Order) OrderEvent {
	lines := make([]EventLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, EventLine{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return OrderEvent{
		OrderID:    o.ID,
		OwnerID:    o.OwnerID,
		Lines:      lines,
		TotalPrice: o.TotalPrice,
		Status:     o.Status,
		OccurredAt: time.Now().UTC(),
	}
}

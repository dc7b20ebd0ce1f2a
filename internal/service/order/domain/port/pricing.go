package port

import "context"

// PricedItem is the catalog's answer for one item id.
type PricedItem struct {
	ItemID string
	Name   string
	Price  float64
}

// PricingGateway is the outbound port to the catalog's price lookup.
// Implementations return domain.ErrNotFound for unknown items and wrap
// transport failures in domain.ErrUpstreamUnavailable.
type PricingGateway interface {
	GetItem(ctx context.Context, itemID string) (PricedItem, error)
}

package saga

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"bazaar/internal/service/order/domain"
)

// PriceHandler builds immutable line snapshots from current catalog prices.
// It runs before any side effect, so a pricing failure aborts with nothing
// to compensate. Lines are priced sequentially in submission order.
type PriceHandler struct {
	NextHandler
}

func (h *PriceHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Price")
	defer span.End()

	priced := make([]domain.OrderLine, 0, len(orderCtx.Requested))
	for _, line := range orderCtx.Requested {
		item, err := orderCtx.Pricing.GetItem(ctx, line.ItemID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "pricing lookup failed")
			return fmt.Errorf("price item %s: %w", line.ItemID, upstream(err))
		}
		priced = append(priced, domain.OrderLine{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: item.Price,
		})
	}

	orderCtx.Priced = priced
	span.SetAttributes(attribute.Int("lines", len(priced)))
	span.AddEvent("All lines priced from catalog snapshots.")

	return h.executeNext(orderCtx)
}

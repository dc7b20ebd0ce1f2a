package saga

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/service/order/domain"
)

// ReserveHandler decrements inventory for each priced line, strictly in the
// order the caller submitted them. No fan-out across lines: sequential
// reservation is what keeps the undo list well defined under partial failure.
type ReserveHandler struct {
	NextHandler
}

func (h *ReserveHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Reserve")
	defer span.End()

	for _, line := range orderCtx.Priced {
		span.AddEvent("reserving line", trace.WithAttributes(
			attribute.String("item.id", line.ItemID),
			attribute.Int("item.quantity", line.Quantity),
		))

		ok, err := orderCtx.Ledger.TryDecrement(ctx, line.ItemID, line.Quantity)
		if err != nil || !ok {
			if err != nil {
				span.RecordError(err)
			}
			span.SetStatus(codes.Error, "inventory reservation failed")

			// Unwind every prior success before reporting. The failed line
			// itself was never decremented, so it is not in the list.
			orderCtx.ReleaseReservations(ctx)

			if err != nil {
				return fmt.Errorf("reserve item %s: %v: %w", line.ItemID, err, domain.ErrConflict)
			}
			return fmt.Errorf("reserve item %s: insufficient inventory: %w", line.ItemID, domain.ErrConflict)
		}
		orderCtx.RecordReservation(line)
	}

	span.AddEvent("All lines reserved.")
	return h.executeNext(orderCtx)
}

package saga

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"bazaar/internal/service/order/domain"
)

// PersistHandler writes the order record, the saga's first durable side
// effect. It only runs once every reservation succeeded; a store failure
// here still has live reservations to unwind.
type PersistHandler struct {
	NextHandler
}

func (h *PersistHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Persist")
	defer span.End()

	order, err := domain.NewOrder(orderCtx.OrderID, orderCtx.OwnerID, orderCtx.Priced)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := orderCtx.Repo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist order")
		orderCtx.ReleaseReservations(ctx)
		return fmt.Errorf("persist order %s: %w", order.ID, upstream(err))
	}

	orderCtx.Order = order
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Float64("order.total", order.TotalPrice),
	)
	span.AddEvent("Order persisted with CREATED status.")

	return h.executeNext(orderCtx)
}

package saga

import (
	"go.opentelemetry.io/otel/attribute"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/order/domain"
)

// PublishHandler emits the CREATED lifecycle event. The event channel is a
// secondary notification, not a consistency-bearing write: failures are
// logged and the saga proceeds untouched.
type PublishHandler struct {
	NextHandler
}

func (h *PublishHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Publish")
	defer span.End()

	span.SetAttributes(
		attribute.String("messaging.system", "kafka"),
		attribute.String("order.id", orderCtx.Order.ID),
	)

	if err := orderCtx.Publisher.Publish(ctx, domain.NewOrderEvent(orderCtx.Order)); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Warn().Err(err).
			Str("order", orderCtx.Order.ID).
			Msg("failed to publish order lifecycle event")
	}

	return h.executeNext(orderCtx)
}

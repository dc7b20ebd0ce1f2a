package saga

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/port"
)

// ChargeHandler submits the payment and settles the saga. An accepted charge
// moves the order to PAID. A rejection or an unreachable processor releases
// every reservation and cancels the order - a successful, terminal outcome of
// the create operation, not an error to the caller.
type ChargeHandler struct {
	NextHandler
}

func (h *ChargeHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Charge")
	defer span.End()

	order := orderCtx.Order
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Float64("payment.amount", order.TotalPrice),
	)

	result, err := orderCtx.Payment.Submit(ctx, order.ID, order.OwnerID, order.TotalPrice)
	if err != nil {
		// Timeouts and transport errors settle exactly like a rejection.
		span.RecordError(err)
		logger.Ctx(ctx).Warn().Err(err).Str("order", order.ID).Msg("payment gateway unreachable, cancelling order")
		result = port.PaymentRejected
	}

	if result == port.PaymentAccepted {
		if err := order.MarkPaid(); err != nil {
			return err
		}
		if err := orderCtx.Repo.Save(ctx, order); err != nil {
			// Payment is taken but the status write failed; surface it, the
			// money side must not be silently unwound.
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to settle paid order")
			return fmt.Errorf("settle order %s: %w", order.ID, upstream(err))
		}
		span.AddEvent("Payment accepted, order PAID.")
		h.publishTransition(orderCtx, ctx)
		return h.executeNext(orderCtx)
	}

	// COMPENSATE: restore stock line by line, then cancel the order.
	orderCtx.ReleaseReservations(ctx)
	if err := order.Cancel(); err != nil {
		return err
	}
	if err := orderCtx.Repo.Save(ctx, order); err != nil {
		span.RecordError(err)
		return fmt.Errorf("cancel order %s after payment rejection: %w", order.ID, upstream(err))
	}
	span.AddEvent("Payment rejected, stock restored, order CANCELLED.")
	h.publishTransition(orderCtx, ctx)

	return h.executeNext(orderCtx)
}

// publishTransition emits the PAID/CANCELLED lifecycle event, best-effort.
func (h *ChargeHandler) publishTransition(orderCtx *OrderContext, ctx context.Context) {
	if err := orderCtx.Publisher.Publish(ctx, domain.NewOrderEvent(orderCtx.Order)); err != nil {
		logger.Ctx(ctx).Warn().Err(err).
			Str("order", orderCtx.Order.ID).
			Str("status", string(orderCtx.Order.Status)).
			Msg("failed to publish order lifecycle event")
	}
}

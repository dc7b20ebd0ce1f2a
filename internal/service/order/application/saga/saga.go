// Package saga implements order creation as an explicit chain of forward
// steps (PRICE, RESERVE, PERSIST, PUBLISH, CHARGE) with compensation modelled
// as a first-class, ordered undo list rather than error-handler side effects.
package saga

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/metrics"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/port"
)

// CompensationAttempt records one restock attempt made while unwinding a
// saga. Err is nil when the increment succeeded. The slice of attempts is
// kept enumerable so a background retry/alerting mechanism can consume it.
type CompensationAttempt struct {
	ItemID   string
	Quantity int
	Err      error
}

// OrderContext carries one order creation attempt through the step chain.
type OrderContext struct {
	Ctx    context.Context
	Tracer trace.Tracer

	OrderID   string
	OwnerID   string
	Requested []domain.OrderLine // caller's lines; UnitPrice unset until priced

	// Outbound ports and the store.
	Pricing   port.PricingGateway
	Ledger    port.InventoryLedger
	Payment   port.PaymentGateway
	Publisher port.EventPublisher
	Repo      domain.OrderRepository

	Metrics *metrics.SagaMetrics

	// Filled in as forward steps succeed.
	Priced []domain.OrderLine
	Order  *domain.Order

	reserved []domain.OrderLine
	attempts []CompensationAttempt
}

// RecordReservation appends a successfully decremented line to the undo list.
// Lines are recorded in submission order; compensation walks the same order.
func (c *OrderContext) RecordReservation(line domain.OrderLine) {
	c.reserved = append(c.reserved, line)
}

// Reserved returns the lines decremented so far, in submission order.
func (c *OrderContext) Reserved() []domain.OrderLine {
	return c.reserved
}

// ReleaseReservations increments stock back for every reserved line.
// Individual failures are logged and recorded but never escalated: the loop
// always attempts every prior success so a single stuck item cannot mask the
// primary failure or block the rest of the unwind.
func (c *OrderContext) ReleaseReservations(ctx context.Context) {
	ctx, span := c.Tracer.Start(ctx, "saga.compensation.ReleaseReservations")
	defer span.End()
	span.SetAttributes(attribute.Int("reservations", len(c.reserved)))

	for _, line := range c.reserved {
		_, err := c.Ledger.Increment(ctx, line.ItemID, line.Quantity)
		c.attempts = append(c.attempts, CompensationAttempt{ItemID: line.ItemID, Quantity: line.Quantity, Err: err})
		c.Metrics.CountCompensation(err != nil)
		if err != nil {
			span.RecordError(err)
			logger.Ctx(ctx).Error().Err(err).
				Str("order", c.OrderID).
				Str("item", line.ItemID).
				Int("quantity", line.Quantity).
				Msg("compensation increment failed, stock restoration stuck")
		}
	}
	c.reserved = nil
}

// CompensationLog returns every restock attempt made for this execution.
func (c *OrderContext) CompensationLog() []CompensationAttempt {
	return c.attempts
}

// Handler is one step in the creation chain.
type Handler interface {
	SetNext(handler Handler) Handler
	Handle(orderCtx *OrderContext) error
}

// NextHandler provides the chain plumbing embedded by every step.
type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(orderCtx *OrderContext) error {
	if h.next != nil {
		return h.next.Handle(orderCtx)
	}
	return nil
}

// upstream wraps gateway failures that are neither a typed domain condition
// nor a normal business outcome.
func upstream(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
		return err
	}
	return errors.Join(domain.ErrUpstreamUnavailable, err)
}

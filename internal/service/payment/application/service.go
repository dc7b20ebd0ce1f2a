package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/pkg/logger"
)

// Decision is the outcome of a charge attempt. A rejection is a normal
// business answer, not an error.
type Decision string

const (
	DecisionAccepted Decision = "ACCEPTED"
	DecisionRejected Decision = "REJECTED"
)

// Charge is one payment request from the order orchestrator.
type Charge struct {
	OrderID string
	UserID  string
	Amount  float64
}

// Service approves or declines charges. There is no real payment rail
// behind it; the decision rule is a configured ceiling, which is enough
// to exercise both saga branches end to end.
type Service struct {
	maxAmount float64
	tracer    trace.Tracer
}

func NewService(maxAmount float64, tracer trace.Tracer) *Service {
	return &Service{maxAmount: maxAmount, tracer: tracer}
}

// Submit decides the charge. Invalid and over-limit amounts are rejected;
// the caller only sees an error on transport or internal failure.
func (s *Service) Submit(ctx context.Context, charge Charge) (Decision, error) {
	ctx, span := s.tracer.Start(ctx, "payment-service.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", charge.OrderID),
		attribute.Float64("payment.amount", charge.Amount),
	)

	decision := DecisionAccepted
	if charge.Amount <= 0 || charge.Amount > s.maxAmount {
		decision = DecisionRejected
	}

	logger.Ctx(ctx).Info().
		Str("order_id", charge.OrderID).
		Str("user_id", charge.UserID).
		Float64("amount", charge.Amount).
		Str("decision", string(decision)).
		Msg("charge decided")
	span.SetAttributes(attribute.String("payment.decision", string(decision)))
	return decision, nil
}

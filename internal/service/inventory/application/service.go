package application

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/inventory/domain"
)

// Service validates requests and delegates to the ledger. All atomicity
// lives in the ledger implementations; this layer never reads-then-writes.
type Service struct {
	ledger domain.Ledger
	tracer trace.Tracer
}

func NewService(ledger domain.Ledger, tracer trace.Tracer) *Service {
	return &Service{ledger: ledger, tracer: tracer}
}

func (s *Service) Create(ctx context.Context, itemID string, quantity int) (domain.Record, error) {
	if itemID == "" {
		return domain.Record{}, domain.ErrInvalidItemID
	}
	if quantity < 0 {
		return domain.Record{}, domain.ErrInvalidQuantity
	}
	return s.ledger.Create(ctx, itemID, quantity)
}

func (s *Service) Get(ctx context.Context, itemID string) (domain.Record, error) {
	return s.ledger.Get(ctx, itemID)
}

// TryDecrement reserves stock. A false return is a normal insufficient-stock
// outcome, not an error.
func (s *Service) TryDecrement(ctx context.Context, itemID string, qty int) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.TryDecrement")
	defer span.End()

	if qty <= 0 {
		return false, domain.ErrInvalidQuantity
	}
	ok, err := s.ledger.TryDecrement(ctx, itemID, qty)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if !ok {
		logger.Ctx(ctx).Info().Str("item", itemID).Int("quantity", qty).Msg("decrement refused, insufficient stock")
	}
	return ok, nil
}

// Increment restores stock for an existing record.
func (s *Service) Increment(ctx context.Context, itemID string, qty int) (int, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.Increment")
	defer span.End()

	if qty <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	newQty, err := s.ledger.Increment(ctx, itemID, qty)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	return newQty, nil
}

package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/metrics"
	"bazaar/internal/service/order/application/saga"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/port"
)

// Service is the order fulfillment orchestrator. It is the only component
// with cross-service knowledge; every collaborator sits behind a port and the
// caller's identity is threaded explicitly through each method.
type Service struct {
	repo      domain.OrderRepository
	pricing   port.PricingGateway
	ledger    port.InventoryLedger
	payment   port.PaymentGateway
	publisher port.EventPublisher
	tracer    trace.Tracer
	metrics   *metrics.SagaMetrics
}

func NewService(
	repo domain.OrderRepository,
	pricing port.PricingGateway,
	ledger port.InventoryLedger,
	payment port.PaymentGateway,
	publisher port.EventPublisher,
	tracer trace.Tracer,
	m *metrics.SagaMetrics,
) *Service {
	return &Service{
		repo:      repo,
		pricing:   pricing,
		ledger:    ledger,
		payment:   payment,
		publisher: publisher,
		tracer:    tracer,
		metrics:   m,
	}
}

// Create runs the fulfillment saga. It terminates in exactly one of three
// ways: a PAID order, a CANCELLED order (payment declined - still a nil
// error), or an error wrapping domain.ErrConflict when stock ran out with
// nothing persisted.
func (s *Service) Create(ctx context.Context, callerID string, lines []LineRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateOrder")
	defer span.End()

	if callerID == "" {
		return nil, fmt.Errorf("%w: caller identity is required", domain.ErrInvalid)
	}
	requested := toUnpricedLines(lines)
	if err := domain.ValidateLines(requested); err != nil {
		span.RecordError(err)
		return nil, err
	}

	orderCtx := &saga.OrderContext{
		Ctx:       ctx,
		Tracer:    s.tracer,
		OrderID:   uuid.New().String(),
		OwnerID:   callerID,
		Requested: requested,
		Pricing:   s.pricing,
		Ledger:    s.ledger,
		Payment:   s.payment,
		Publisher: s.publisher,
		Repo:      s.repo,
		Metrics:   s.metrics,
	}
	span.SetAttributes(attribute.String("order.id", orderCtx.OrderID))

	if err := s.buildChain().Handle(orderCtx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order creation saga failed")
		if errors.Is(err, domain.ErrConflict) {
			s.metrics.CountOutcome("conflict")
		} else {
			s.metrics.CountOutcome("failed")
		}
		logger.Ctx(ctx).Error().Err(err).Str("order", orderCtx.OrderID).Msg("order creation saga aborted")
		return nil, err
	}

	order := orderCtx.Order
	switch order.Status {
	case domain.StatusPaid:
		s.metrics.CountOutcome("paid")
	case domain.StatusCancelled:
		s.metrics.CountOutcome("cancelled")
	}
	logger.Ctx(ctx).Info().
		Str("order", order.ID).
		Str("status", string(order.Status)).
		Float64("total", order.TotalPrice).
		Msg("order creation saga settled")
	return order, nil
}

// Get returns the order, owner-checked.
func (s *Service) Get(ctx context.Context, orderID, callerID string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetOrder")
	defer span.End()

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(order, callerID); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns all of the caller's orders; an empty slice when there are none.
func (s *Service) List(ctx context.Context, callerID string) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListOrders")
	defer span.End()

	orders, err := s.repo.FindByOwner(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

// Update replaces the line set of a CREATED order, re-pricing every line from
// the catalog and recomputing the total.
//
// Inventory is deliberately not touched: stock was committed at creation and
// this operation does not re-reserve, so edited quantities can drift from the
// reserved amounts. Known, accepted limitation.
func (s *Service) Update(ctx context.Context, orderID, callerID string, lines []LineRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateOrder")
	defer span.End()

	requested := toUnpricedLines(lines)
	if err := domain.ValidateLines(requested); err != nil {
		return nil, err
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(order, callerID); err != nil {
		return nil, err
	}
	if order.Status != domain.StatusCreated {
		return nil, fmt.Errorf("%w: only CREATED orders can be updated, order is %s", domain.ErrConflict, order.Status)
	}

	priced := make([]domain.OrderLine, 0, len(requested))
	for _, line := range requested {
		item, err := s.pricing.GetItem(ctx, line.ItemID)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("price item %s: %w", line.ItemID, err)
		}
		priced = append(priced, domain.OrderLine{ItemID: line.ItemID, Quantity: line.Quantity, UnitPrice: item.Price})
	}

	if err := order.ReplaceLines(priced); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel restores stock for every line and moves the order to CANCELLED.
// Cancelling an already-CANCELLED order is an idempotent no-op that performs
// no further inventory increments.
func (s *Service) Cancel(ctx context.Context, orderID, callerID string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.CancelOrder")
	defer span.End()

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(order, callerID); err != nil {
		return nil, err
	}
	if order.Status == domain.StatusCancelled {
		return order, nil
	}

	// Restock is best-effort with the same swallow-and-continue policy as
	// saga compensation; a stuck increment is logged, never escalated.
	for _, line := range order.Lines {
		if _, err := s.ledger.Increment(ctx, line.ItemID, line.Quantity); err != nil {
			s.metrics.CountCompensation(true)
			span.RecordError(err)
			logger.Ctx(ctx).Error().Err(err).
				Str("order", order.ID).
				Str("item", line.ItemID).
				Int("quantity", line.Quantity).
				Msg("restock on cancel failed")
			continue
		}
		s.metrics.CountCompensation(false)
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, domain.NewOrderEvent(order)); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("order", order.ID).Msg("failed to publish order lifecycle event")
	}
	return order, nil
}

func (s *Service) buildChain() saga.Handler {
	chain := new(saga.PriceHandler)
	chain.SetNext(new(saga.ReserveHandler)).
		SetNext(new(saga.PersistHandler)).
		SetNext(new(saga.PublishHandler)).
		SetNext(new(saga.ChargeHandler))
	return chain
}

func ensureOwner(order *domain.Order, callerID string) error {
	if order.OwnerID != callerID {
		return fmt.Errorf("%w: order %s does not belong to caller", domain.ErrForbidden, order.ID)
	}
	return nil
}

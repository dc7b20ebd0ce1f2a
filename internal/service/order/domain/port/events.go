package port

import (
	"context"

	"bazaar/internal/service/order/domain"
)

// EventPublisher is the outbound port for order lifecycle notifications.
// Publishing is fire-and-forget from the saga's point of view: failures are
// logged by the caller and never roll anything back.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
}

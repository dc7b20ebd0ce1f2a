package infrastructure

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"bazaar/internal/pkg/mq"
	"bazaar/internal/service/order/domain"
)

// KafkaEventPublisher implements port.EventPublisher on the order-events
// topic. Messages are keyed by order id so consumers see one order's
// transitions in order; cross-order ordering is not promised.
type KafkaEventPublisher struct {
	writer *kafka.Writer
}

func NewKafkaEventPublisher(writer *kafka.Writer) *KafkaEventPublisher {
	return &KafkaEventPublisher{writer: writer}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return mq.ProduceMessage(ctx, p.writer, []byte(event.OrderID), payload)
}

// NopEventPublisher drops events; used when no brokers are configured.
type NopEventPublisher struct{}

func (NopEventPublisher) Publish(context.Context, domain.OrderEvent) error { return nil }

package notification

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/mq"
	orderdomain "bazaar/internal/service/order/domain"
)

// Consumer tails the order lifecycle topic and notifies the customer.
// Delivery here is a structured log line standing in for email or push;
// swapping the sink does not change the consume loop.
type Consumer struct {
	reader *kafka.Reader
	tracer trace.Tracer
}

func NewConsumer(reader *kafka.Reader) *Consumer {
	return &Consumer{reader: reader, tracer: otel.Tracer("notification-service")}
}

// Run consumes until ctx is cancelled. Malformed messages are logged and
// committed rather than retried forever.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	carrier := mq.KafkaHeaderCarrier(msg.Headers)
	ctx = otel.GetTextMapPropagator().Extract(ctx, &carrier)
	ctx, span := c.tracer.Start(ctx, "notification-service.HandleOrderEvent")
	defer span.End()

	var event orderdomain.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("key", string(msg.Key)).
			Msg("dropping undecodable order event")
		return
	}

	span.SetAttributes(
		attribute.String("order.id", event.OrderID),
		attribute.String("order.status", string(event.Status)),
	)

	logger.Ctx(ctx).Info().
		Str("order_id", event.OrderID).
		Str("owner_id", event.OwnerID).
		Str("status", string(event.Status)).
		Float64("total_price", event.TotalPrice).
		Int("line_count", len(event.Lines)).
		Msg("order notification sent")
}

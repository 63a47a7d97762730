package product

import (
	"context"
	"encoding/json"

	"productservice/internal/platform/kafka"
	"productservice/internal/platform/observability"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventTypeHeader carries the envelope kind so consumers can filter without decoding.
const EventTypeHeader = "event_type"

// Publisher sends cart and wishlist envelopes to the downstream services.
type Publisher struct {
	producer      kafka.Producer
	customerTopic string
	shoppingTopic string
	logger        observability.Logger
}

// NewPublisher creates a publisher writing to the given topics
func NewPublisher(producer kafka.Producer, customerTopic, shoppingTopic string, logger observability.Logger) *Publisher {
	return &Publisher{
		producer:      producer,
		customerTopic: customerTopic,
		shoppingTopic: shoppingTopic,
		logger:        logger,
	}
}

// PublishCustomerEvent sends event to the customer service topic.
func (p *Publisher) PublishCustomerEvent(ctx context.Context, event *CustomerEvent) error {
	return p.publish(ctx, p.customerTopic, event)
}

// PublishShoppingEvent sends event to the shopping service topic.
func (p *Publisher) PublishShoppingEvent(ctx context.Context, event *CustomerEvent) error {
	return p.publish(ctx, p.shoppingTopic, event)
}

func (p *Publisher) publish(ctx context.Context, topic string, event *CustomerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("❌ Failed to serialize event",
			zap.Error(err),
			zap.String("event", string(event.Event)),
		)
		return err
	}

	msg := kafkago.Message{
		Topic: topic,
		Key:   []byte(event.Data.Product.ID),
		Value: payload,
		// Baggage rides along here; the instrumented writer only propagates the trace context.
		Headers: kafka.InjectTraceContext(ctx, []kafkago.Header{
			{Key: EventTypeHeader, Value: []byte(event.Event)},
		}),
	}

	if err := p.producer.WriteMessage(ctx, msg); err != nil {
		p.logger.Error("❌ Failed to publish event",
			zap.Error(err),
			zap.String("topic", topic),
			zap.String("event", string(event.Event)),
		)
		return err
	}

	p.logger.Info("📤 Sent event",
		zap.String("topic", topic),
		zap.String("event", string(event.Event)),
		zap.String("product_id", event.Data.Product.ID),
	)
	return nil
}

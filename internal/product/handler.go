package product

import (
	"context"

	"productservice/internal/platform/kafka"
	"productservice/internal/platform/observability"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// MessageHandler defines the interface for processing incoming messages.
type MessageHandler interface {
	HandleProductEvent(ctx context.Context, msg kafkago.Message) error
}

// EventRouter dispatches a raw stock envelope. StockHandler implements it.
type EventRouter interface {
	RouteEvent(ctx context.Context, raw []byte) (EventKind, error)
}

// Deduplicator remembers handled message positions. The Redis idempotency store implements it.
type Deduplicator interface {
	Key(topic string, partition int, offset int64) string
	Seen(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}

// KafkaMessageHandler handles Kafka message processing for product stock events
type KafkaMessageHandler struct {
	router  EventRouter
	dedup   Deduplicator
	logger  observability.Logger
	handled metric.Int64Counter
}

// NewMessageHandler creates a new MessageHandler instance with explicit dependencies.
// dedup may be nil, in which case every delivery is routed.
func NewMessageHandler(router EventRouter, dedup Deduplicator, logger observability.Logger, meter metric.Meter) (MessageHandler, error) {
	handled, err := meter.Int64Counter("product.events.handled",
		metric.WithDescription("Product stock events by kind and outcome"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &KafkaMessageHandler{
		router:  router,
		dedup:   dedup,
		logger:  logger,
		handled: handled,
	}, nil
}

// HandleProductEvent routes one message from the products topic
func (h *KafkaMessageHandler) HandleProductEvent(ctx context.Context, msg kafkago.Message) error {
	// Extract trace context to connect spans across services
	msgCtx := kafka.ExtractTraceContext(ctx, msg.Headers)

	h.logger.Info("📨 Raw Kafka message received",
		zap.ByteString("key", msg.Key),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	)

	var key string
	if h.dedup != nil {
		key = h.dedup.Key(msg.Topic, msg.Partition, msg.Offset)
		seen, err := h.dedup.Seen(msgCtx, key)
		if err != nil {
			h.logger.Error("❌ Idempotency check failed", zap.Error(err), zap.String("key", key))
			h.record(msgCtx, EventUnknown, "dedup_error")
			return err
		}
		if seen {
			h.logger.Info("⏭️ Duplicate message skipped", zap.String("key", key))
			h.record(msgCtx, EventUnknown, "duplicate")
			return nil
		}
	}

	kind, err := h.router.RouteEvent(msgCtx, msg.Value)
	if err != nil {
		h.logger.Error("❌ Failed to process event",
			zap.Error(err),
			zap.String("event", string(kind)),
			zap.Int64("offset", msg.Offset),
		)
		h.record(msgCtx, kind, "error")
		// A failed message stays eligible for redelivery.
		if h.dedup != nil {
			if ferr := h.dedup.Forget(msgCtx, key); ferr != nil {
				h.logger.Warn("⚠️ Failed to release idempotency key", zap.Error(ferr), zap.String("key", key))
			}
		}
		return err
	}

	outcome := "applied"
	if kind == EventUnknown {
		outcome = "ignored"
	}
	h.record(msgCtx, kind, outcome)
	return nil
}

func (h *KafkaMessageHandler) record(ctx context.Context, kind EventKind, outcome string) {
	h.handled.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.kind", string(kind)),
		attribute.String("outcome", outcome),
	))
}

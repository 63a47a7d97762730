package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Producer publishes single messages. The instrumented otel-kafka-konsumer writer
// satisfies it and injects trace headers on the way out.
type Producer interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

// Consumer reads messages one at a time from a consumer group.
type Consumer interface {
	ReadMessage(ctx context.Context) (*kafka.Message, error)
	Close() error
}

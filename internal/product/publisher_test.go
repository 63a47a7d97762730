package product_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"productservice/internal/platform/kafka"
	"productservice/internal/product"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

type fakeProducer struct {
	messages []kafkago.Message
	err      error
}

func (p *fakeProducer) WriteMessage(_ context.Context, msg kafkago.Message) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func TestPublisherRoutesTopics(t *testing.T) {
	producer := &fakeProducer{}
	pub := product.NewPublisher(producer, "customers", "shopping", zap.NewNop())
	ev := &product.CustomerEvent{
		Event: product.EventRemoveFromCart,
		Data:  product.CustomerEventData{UserID: "u1", Product: stocked("p1", 1, true), Amount: 1},
	}

	if err := pub.PublishCustomerEvent(context.Background(), ev); err != nil {
		t.Fatalf("PublishCustomerEvent: %v", err)
	}
	if err := pub.PublishShoppingEvent(context.Background(), ev); err != nil {
		t.Fatalf("PublishShoppingEvent: %v", err)
	}

	if len(producer.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(producer.messages))
	}
	if producer.messages[0].Topic != "customers" || producer.messages[1].Topic != "shopping" {
		t.Fatalf("unexpected topics: %q %q", producer.messages[0].Topic, producer.messages[1].Topic)
	}

	msg := producer.messages[0]
	if string(msg.Key) != "p1" {
		t.Fatalf("expected key p1, got %q", msg.Key)
	}
	if got := kafka.HeaderValue(msg.Headers, product.EventTypeHeader); got != "REMOVE_FROM_CART" {
		t.Fatalf("unexpected event_type header %q", got)
	}

	var decoded product.CustomerEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded.Event != product.EventRemoveFromCart || decoded.Data.UserID != "u1" {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}

func TestPublisherCarriesBaggage(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.Baggage{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	member, err := baggage.NewMember("tenant", "acme")
	if err != nil {
		t.Fatal(err)
	}
	bag, err := baggage.New(member)
	if err != nil {
		t.Fatal(err)
	}
	ctx := baggage.ContextWithBaggage(context.Background(), bag)

	producer := &fakeProducer{}
	pub := product.NewPublisher(producer, "customers", "shopping", zap.NewNop())
	if err := pub.PublishCustomerEvent(ctx, &product.CustomerEvent{Event: product.EventAddToWishlist}); err != nil {
		t.Fatalf("PublishCustomerEvent: %v", err)
	}

	if got := kafka.HeaderValue(producer.messages[0].Headers, "baggage"); got != "tenant=acme" {
		t.Fatalf("expected baggage header, got %q", got)
	}
}

func TestPublisherWriteError(t *testing.T) {
	boom := errors.New("broker down")
	pub := product.NewPublisher(&fakeProducer{err: boom}, "customers", "shopping", zap.NewNop())

	err := pub.PublishCustomerEvent(context.Background(), &product.CustomerEvent{Event: product.EventAddToWishlist})
	if !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
}

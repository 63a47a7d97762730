package observability

import (
	"context"
	"errors"
	"testing"

	"productservice/internal/config"

	"go.opentelemetry.io/otel/log/noop"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func TestNewResourceNamesService(t *testing.T) {
	res, err := NewResource()
	if err != nil {
		t.Fatalf("NewResource: %v", err)
	}
	v, ok := res.Set().Value(semconv.ServiceNameKey)
	if !ok || v.AsString() != config.ServiceName {
		t.Fatalf("expected service.name %q, got %q", config.ServiceName, v.AsString())
	}
}

func TestNewOTelLoggerWithNoopProvider(t *testing.T) {
	logger := NewOTelLogger(noop.NewLoggerProvider())
	if logger == nil {
		t.Fatal("expected logger")
	}
	logger.Info("hello from test")
}

func TestShutdownJoinsAndClears(t *testing.T) {
	calls := 0
	fns := []func(ctx context.Context) error{
		func(context.Context) error { calls++; return nil },
		func(context.Context) error { calls++; return errors.New("exporter closed") },
	}
	shutdown := newShutdown(&fns)

	if err := shutdown(context.Background()); err == nil {
		t.Fatal("expected joined error")
	}
	if calls != 2 || fns != nil {
		t.Fatalf("expected both shutdowns to run once, calls=%d", calls)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown should be a no-op, got %v", err)
	}
}

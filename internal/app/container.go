package app

import (
	"context"
	"errors"
	"fmt"

	"productservice/internal/config"
	"productservice/internal/platform/idempotency"
	"productservice/internal/platform/kafka"
	"productservice/internal/platform/observability"
	"productservice/internal/platform/postgres"
	productpg "productservice/internal/product/postgres"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Container holds expensive-to-create singleton resources and dependencies
type Container struct {
	config          *config.Config
	logger          observability.Logger
	tracer          observability.Tracer
	meter           metric.Meter
	pool            *pgxpool.Pool
	store           *productpg.Store
	redis           *redis.Client
	dedup           *idempotency.Store
	messageConsumer kafka.Consumer
	messageProducer kafka.Producer
	otelShutdowns   []observability.ShutdownFunc
}

// NewContainer creates and initializes all infrastructure components
func NewContainer(ctx context.Context) (*Container, error) {
	// Load configuration first
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	container := &Container{
		config: cfg,
	}

	// Start with basic logger
	logger, err := observability.NewBootstrapLogger()
	if err != nil {
		return nil, err
	}
	container.logger = logger

	tp := container.setupObservability(ctx)

	steps := []func(context.Context) error{
		container.setupDatabase,
		container.setupIdempotency,
		func(context.Context) error { return container.setupKafkaWithTracer(tp) },
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			container.Shutdown(context.Background())
			return nil, err
		}
	}

	return container, nil
}

// setupObservability configures OpenTelemetry logging, tracing and metrics.
// Exporter failures are logged and the service keeps running on the no-op providers.
func (c *Container) setupObservability(ctx context.Context) trace.TracerProvider {
	observability.SetupPropagation()

	if c.config.OtelEnabled() {
		otelLogShutdown, err := observability.SetupLoggingSDK(ctx, c.config)
		if err != nil {
			c.logger.Error("Failed to setup OpenTelemetry logging", zap.Error(err))
		}
		c.addShutdown(otelLogShutdown)

		_, otelTraceShutdown, err := observability.SetupTracingSDK(ctx, c.config)
		if err != nil {
			c.logger.Error("Failed to setup OpenTelemetry tracing", zap.Error(err))
		}
		c.addShutdown(otelTraceShutdown)

		otelMetricShutdown, err := observability.SetupMetricsSDK(ctx, c.config)
		if err != nil {
			c.logger.Error("Failed to setup OpenTelemetry metrics", zap.Error(err))
		}
		c.addShutdown(otelMetricShutdown)
	} else {
		c.logger.Info("OTEL_ENDPOINT not set, telemetry export disabled")
	}

	// Re-initialize logger with OTel bridge
	c.logger = observability.NewOTelLogger(global.GetLoggerProvider())
	c.logger.Info("Logger re-initialized with OpenTelemetry bridge")

	c.tracer = otel.Tracer(config.ServiceName)
	c.meter = otel.Meter(config.ServiceName)
	return otel.GetTracerProvider()
}

func (c *Container) addShutdown(fn observability.ShutdownFunc) {
	if fn != nil {
		c.otelShutdowns = append(c.otelShutdowns, fn)
	}
}

// setupDatabase opens the pool and makes sure the products table exists
func (c *Container) setupDatabase(ctx context.Context) error {
	pool, err := postgres.Connect(ctx, c.config.DatabaseURL)
	if err != nil {
		return err
	}
	c.pool = pool

	c.store = productpg.NewStore(pool, c.logger)
	return c.store.Migrate(ctx)
}

// setupIdempotency connects to Redis when REDIS_ADDR is set
func (c *Container) setupIdempotency(ctx context.Context) error {
	if !c.config.DedupEnabled() {
		c.logger.Info("REDIS_ADDR not set, redelivery dedup disabled")
		return nil
	}

	c.redis = redis.NewClient(&redis.Options{Addr: c.config.RedisAddr})
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	c.dedup = idempotency.NewStore(c.redis, c.config.DedupTTL)
	c.logger.Info("🔑 Redelivery dedup enabled", zap.Duration("ttl", c.config.DedupTTL))
	return nil
}

// setupKafkaWithTracer initializes Kafka consumer and producer with OpenTelemetry
func (c *Container) setupKafkaWithTracer(tp trace.TracerProvider) error {
	// Create Kafka reader
	readerConfig := kafkago.ReaderConfig{
		Brokers: []string{c.config.KafkaBroker},
		Topic:   config.ProductEventsTopic,
		GroupID: config.GroupID,
	}

	baseReader := kafkago.NewReader(readerConfig)
	reader, err := otelkafka.NewReader(baseReader,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes(
			[]attribute.KeyValue{
				semconv.MessagingDestinationNameKey.String(config.ProductEventsTopic),
				semconv.MessagingKafkaConsumerGroupKey.String(config.GroupID),
			},
		),
	)
	if err != nil {
		return err
	}
	c.messageConsumer = reader

	// Create Kafka writer. Topic is set per message: cart and wishlist
	// payloads fan out to more than one service.
	baseWriter := &kafkago.Writer{
		Addr:         kafkago.TCP(c.config.KafkaBroker),
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: config.BatchTimeout,
		BatchSize:    config.BatchSize,
	}

	writer, err := otelkafka.NewWriter(baseWriter,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes(
			[]attribute.KeyValue{
				attribute.String("messaging.kafka.client_id", config.ServiceName),
			},
		),
	)
	if err != nil {
		return err
	}
	c.messageProducer = writer

	return nil
}

// Shutdown gracefully shuts down all infrastructure components
func (c *Container) Shutdown(ctx context.Context) {
	c.logger.Info("Shutting down infrastructure...")

	// Close Kafka components
	if c.messageConsumer != nil {
		if err := c.messageConsumer.Close(); err != nil {
			c.logger.Error("Failed to close message consumer", zap.Error(err))
		}
	}

	if c.messageProducer != nil {
		if err := c.messageProducer.Close(); err != nil {
			c.logger.Error("Failed to close message producer", zap.Error(err))
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if c.pool != nil {
		c.pool.Close()
	}

	// Shutdown OpenTelemetry
	var otelErr error
	for _, shutdown := range c.otelShutdowns {
		otelErr = errors.Join(otelErr, shutdown(ctx))
	}
	c.otelShutdowns = nil
	if otelErr != nil {
		c.logger.Error("Failed to shutdown OpenTelemetry", zap.Error(otelErr))
	}

	c.logger.Info("Infrastructure shutdown complete")

	// Sync logger; stdout sync errors are expected on some platforms
	_ = c.logger.Sync()
}

// Getters for accessing infrastructure components
func (c *Container) Config() *config.Config          { return c.config }
func (c *Container) Logger() observability.Logger    { return c.logger }
func (c *Container) Tracer() observability.Tracer    { return c.tracer }
func (c *Container) Meter() metric.Meter             { return c.meter }
func (c *Container) Store() *productpg.Store         { return c.store }
func (c *Container) MessageConsumer() kafka.Consumer { return c.messageConsumer }
func (c *Container) MessageProducer() kafka.Producer { return c.messageProducer }

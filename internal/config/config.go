package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	ServiceName    = "product-service"
	ServiceVersion = "0.1.0"
)

const (
	ProductEventsTopic  = "products"
	CustomerEventsTopic = "customers"
	ShoppingEventsTopic = "shopping"
	GroupID             = "product-service-group"
	BatchTimeout        = 10 * time.Millisecond
	BatchSize           = 100
)

const (
	LogsPath       = "/otlp/v1/logs"    // Grafana Cloud OTLP path
	TracesPath     = "/otlp/v1/traces"  // Grafana Cloud OTLP path
	MetricsPath    = "/otlp/v1/metrics" // Grafana Cloud OTLP path
	ExportTimeout  = 30 * time.Second
	MaxQueueSize   = 2048
	MetricInterval = 15 * time.Second
)

const (
	DefaultHTTPAddr        = ":8080"
	DefaultDedupTTLSeconds = 600
	ShutdownTimeout        = 10 * time.Second
)

// Config holds environment-specific configuration
type Config struct {
	KafkaBroker    string
	DatabaseURL    string
	HTTPAddr       string
	RedisAddr      string
	OtelEndpoint   string
	OtelAuthHeader string
	DedupTTL       time.Duration
}

// OtelEnabled reports whether an OTLP endpoint was configured.
func (c *Config) OtelEnabled() bool {
	return c.OtelEndpoint != ""
}

// DedupEnabled reports whether redelivered Kafka messages should be filtered through Redis.
func (c *Config) DedupEnabled() bool {
	return c.RedisAddr != ""
}

// LoadConfig loads configuration from environment variables with validation
func LoadConfig() (*Config, error) {
	config := &Config{
		KafkaBroker:    os.Getenv("KAFKA_BROKER"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		HTTPAddr:       getenv("HTTP_ADDR", DefaultHTTPAddr),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		OtelEndpoint:   os.Getenv("OTEL_ENDPOINT"),
		OtelAuthHeader: os.Getenv("OTEL_AUTH_HEADER"),
	}

	ttl, err := atoienv("DEDUP_TTL_SECONDS", DefaultDedupTTLSeconds)
	if err != nil {
		return nil, err
	}
	config.DedupTTL = time.Duration(ttl) * time.Second

	if config.KafkaBroker == "" {
		return nil, fmt.Errorf("KAFKA_BROKER environment variable is required")
	}
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if config.OtelEndpoint != "" && config.OtelAuthHeader == "" {
		return nil, fmt.Errorf("OTEL_AUTH_HEADER environment variable is required when OTEL_ENDPOINT is set")
	}

	return config, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return n, nil
}

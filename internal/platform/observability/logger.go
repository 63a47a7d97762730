package observability

import (
	"os"

	"productservice/internal/config"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InstrumentationScope names the zap bridge scope in exported OTel logs.
const InstrumentationScope = "product-service.manual"

// NewBootstrapLogger returns the console logger used until OTel is configured.
func NewBootstrapLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

// NewOTelLogger tees zap output to the OTel log bridge and a JSON console core.
// With no SDK installed the provider is the global no-op and only the console core emits.
func NewOTelLogger(provider log.LoggerProvider) *zap.Logger {
	otelZapCore := otelzap.NewCore(InstrumentationScope,
		otelzap.WithLoggerProvider(provider),
	)

	consoleEncoderConfig := zap.NewProductionEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(consoleEncoderConfig),
		zapcore.Lock(os.Stdout),
		zap.InfoLevel,
	)

	return zap.New(zapcore.NewTee(otelZapCore, consoleCore),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service.name", config.ServiceName)),
	)
}

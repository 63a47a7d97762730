package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"productservice/internal/config"
	"productservice/internal/product"

	"go.uber.org/zap"
)

// Application holds all the components and manages the application lifecycle
type Application struct {
	ctx       context.Context
	cancel    context.CancelFunc
	container *Container
	consumer  product.ConsumerService
	server    *http.Server
}

// NewApplication creates and fully initializes a new Application instance
func NewApplication(ctx context.Context) (*Application, error) {
	// Set up signal handling
	appCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)

	app := &Application{
		ctx:    appCtx,
		cancel: cancel,
	}

	// Initialize container (expensive singletons)
	container, err := NewContainer(app.ctx)
	if err != nil {
		cancel() // Clean up context if initialization fails
		return nil, err
	}
	app.container = container

	factory := NewServiceFactory(container)
	stock := factory.CreateStockHandler()
	handler, err := factory.CreateMessageHandler(stock)
	if err != nil {
		container.Shutdown(context.Background())
		cancel()
		return nil, err
	}
	app.consumer = factory.CreateConsumerService(handler)

	app.server = &http.Server{
		Addr:         container.Config().HTTPAddr,
		BaseContext:  func(_ net.Listener) context.Context { return app.ctx },
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		Handler:      factory.CreateHTTPHandler(factory.CreateCatalogService(), stock, factory.CreatePublisher()),
	}

	app.container.Logger().Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP and consumes stock events until the context is cancelled
// or the HTTP server fails.
func (app *Application) Run() error {
	logger := app.container.Logger()

	srvErr := make(chan error, 1)
	go func() {
		logger.Info("🚀 Starting HTTP server", zap.String("address", app.server.Addr))
		srvErr <- app.server.ListenAndServe()
	}()

	consumerDone := make(chan error, 1)
	go func() {
		consumerDone <- app.consumer.Start(app.ctx)
	}()

	var err error
	select {
	case httpErr := <-srvErr:
		if !errors.Is(httpErr, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", zap.Error(httpErr))
			err = httpErr
		}
		app.cancel()
	case <-app.ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if shutdownErr := app.server.Shutdown(ctx); shutdownErr != nil {
		logger.Error("HTTP server shutdown error", zap.Error(shutdownErr))
		err = errors.Join(err, shutdownErr)
	}

	return errors.Join(err, <-consumerDone)
}

// Shutdown gracefully shuts down all application components
func (app *Application) Shutdown() {
	if app.container != nil {
		app.container.Logger().Info("Starting application shutdown...")
	}

	// Cancel context
	if app.cancel != nil {
		app.cancel()
	}

	// Shutdown container
	if app.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		app.container.Shutdown(ctx)
	}
}

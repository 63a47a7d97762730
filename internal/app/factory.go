package app

import (
	"net/http"

	"productservice/internal/config"
	"productservice/internal/httpapi"
	"productservice/internal/product"
)

// ServiceFactory creates business logic services with their dependencies
type ServiceFactory struct {
	container *Container
}

// NewServiceFactory creates a new service factory
func NewServiceFactory(container *Container) *ServiceFactory {
	return &ServiceFactory{
		container: container,
	}
}

// CreateStockHandler creates the stock mutation handler
func (f *ServiceFactory) CreateStockHandler() *product.StockHandler {
	return product.NewStockHandler(f.container.Store(), f.container.Logger(), f.container.Tracer())
}

// CreateCatalogService creates the product catalog service
func (f *ServiceFactory) CreateCatalogService() *product.CatalogService {
	return product.NewCatalogService(f.container.Store(), f.container.Logger(), f.container.Tracer())
}

// CreatePublisher creates the cart and wishlist event publisher
func (f *ServiceFactory) CreatePublisher() *product.Publisher {
	return product.NewPublisher(
		f.container.MessageProducer(),
		config.CustomerEventsTopic,
		config.ShoppingEventsTopic,
		f.container.Logger(),
	)
}

// CreateMessageHandler creates a new message handler instance
func (f *ServiceFactory) CreateMessageHandler(stock *product.StockHandler) (product.MessageHandler, error) {
	var dedup product.Deduplicator
	if f.container.dedup != nil {
		dedup = f.container.dedup
	}
	return product.NewMessageHandler(stock, dedup, f.container.Logger(), f.container.Meter())
}

// CreateConsumerService creates the products topic consumer loop
func (f *ServiceFactory) CreateConsumerService(handler product.MessageHandler) product.ConsumerService {
	return product.NewConsumerService(f.container.MessageConsumer(), handler, f.container.Logger())
}

// CreateHTTPHandler creates the instrumented HTTP router
func (f *ServiceFactory) CreateHTTPHandler(catalog *product.CatalogService, stock *product.StockHandler, publisher *product.Publisher) http.Handler {
	api := httpapi.NewAPI(catalog, stock, publisher, f.container.Logger())
	return httpapi.NewRouter(api, f.container.Logger(), config.ServiceName)
}

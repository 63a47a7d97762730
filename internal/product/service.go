package product

import (
	"context"
	"fmt"

	"productservice/internal/platform/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// CatalogService handles product CRUD and the cart/wishlist payloads.
type CatalogService struct {
	store  Store
	logger observability.Logger
	tracer observability.Tracer
}

// NewCatalogService creates a new catalog service instance with explicit dependencies
func NewCatalogService(store Store, logger observability.Logger, tracer observability.Tracer) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: logger,
		tracer: tracer,
	}
}

// CreateProduct validates in and stores a new product under a fresh id.
func (s *CatalogService) CreateProduct(ctx context.Context, in CreateInput) (*Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.create_product")
	defer span.End()

	if err := in.Validate(); err != nil {
		recordError(span, err)
		return nil, err
	}

	created, err := s.store.Create(ctx, New(uuid.NewString(), in))
	if err != nil {
		s.logger.Error("❌ Error in CreateProduct", zap.Error(err))
		recordError(span, err)
		return nil, fmt.Errorf("create product: %w", err)
	}

	span.SetAttributes(attribute.String("product.id", created.ID))
	span.SetStatus(codes.Ok, "Product created")
	s.logger.Info("🆕 Product created", zap.String("product_id", created.ID), zap.String("type", created.Type))
	return created, nil
}

// ListProducts returns every product.
func (s *CatalogService) ListProducts(ctx context.Context) ([]Product, error) {
	products, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("❌ Error in ListProducts", zap.Error(err))
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetProduct returns the product with id.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("❌ Error in GetProduct", zap.Error(err), zap.String("product_id", id))
		return nil, err
	}
	return p, nil
}

// UpdateProduct applies a partial update.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, patch Patch) (*Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.update_product")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	if err := patch.Validate(); err != nil {
		recordError(span, err)
		return nil, err
	}

	updated, err := mutate(ctx, s.store, s.logger, DefaultSaveAttempts, id, func(p *Product) error {
		patch.Apply(p)
		return nil
	})
	if err != nil {
		s.logger.Error("❌ Error in UpdateProduct", zap.Error(err), zap.String("product_id", id))
		recordError(span, err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "Product updated")
	return updated, nil
}

// ProductsByCategory returns the products whose type equals category.
func (s *CatalogService) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	products, err := s.store.FindByCategory(ctx, category)
	if err != nil {
		s.logger.Error("❌ Error in ProductsByCategory", zap.Error(err), zap.String("type", category))
		return nil, fmt.Errorf("products by category: %w", err)
	}
	return products, nil
}

// SelectedProducts returns the products among ids that exist. Unknown ids are skipped.
func (s *CatalogService) SelectedProducts(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	products, err := s.store.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("❌ Error in SelectedProducts", zap.Error(err), zap.Int("ids", len(ids)))
		return nil, fmt.Errorf("selected products: %w", err)
	}
	return products, nil
}

// ProductPayload builds the envelope sent to the customer and shopping services
// when a user changes their cart or wishlist.
func (s *CatalogService) ProductPayload(ctx context.Context, userID, productID string, amount int, kind CustomerEventKind) (*CustomerEvent, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", ErrInvalidInput)
	}

	p, err := s.store.FindByID(ctx, productID)
	if err != nil {
		s.logger.Error("❌ Error in ProductPayload", zap.Error(err), zap.String("product_id", productID))
		return nil, err
	}

	return &CustomerEvent{
		Event: kind,
		Data: CustomerEventData{
			UserID:  userID,
			Product: *p,
			Amount:  amount,
		},
	}, nil
}

package product

import (
	"context"
	"errors"
	"fmt"

	"productservice/internal/platform/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultSaveAttempts bounds the read-modify-write retries after a version conflict.
const DefaultSaveAttempts = 3

// BulkResult records one consumption entry that was persisted.
type BulkResult struct {
	ProductID    string `json:"productId"`
	AmountBought int    `json:"productAmountBought"`
	Stock        int    `json:"stock"`
	Available    bool   `json:"available"`
}

// StockHandler applies stock mutations to stored products and routes stock events.
// It holds no state between calls.
type StockHandler struct {
	store        Store
	logger       observability.Logger
	tracer       observability.Tracer
	saveAttempts int
}

// NewStockHandler creates a stock handler with explicit dependencies
func NewStockHandler(store Store, logger observability.Logger, tracer observability.Tracer) *StockHandler {
	return &StockHandler{
		store:        store,
		logger:       logger,
		tracer:       tracer,
		saveAttempts: DefaultSaveAttempts,
	}
}

// ApplyDelta adds quantityChange to the product's stock and re-derives availability.
// A change that would leave stock negative fails with ErrInsufficientStock and
// nothing is written.
func (h *StockHandler) ApplyDelta(ctx context.Context, productID string, quantityChange int) (*Product, error) {
	ctx, span := h.tracer.Start(ctx, "stock.apply_delta")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", productID),
		attribute.Int("stock.quantity_change", quantityChange),
	)

	if productID == "" {
		err := fmt.Errorf("product id is required: %w", ErrInvalidInput)
		recordError(span, err)
		return nil, err
	}

	updated, err := mutate(ctx, h.store, h.logger, h.saveAttempts, productID, func(p *Product) error {
		h.logger.Info("🔄 Updating stock",
			zap.String("product_id", productID),
			zap.Int("stock", p.Stock),
			zap.Int("quantity_change", quantityChange),
		)

		newStock := p.Stock + quantityChange
		if newStock < 0 {
			return fmt.Errorf("product %s has %d, change %d: %w", productID, p.Stock, quantityChange, ErrInsufficientStock)
		}
		p.Stock = newStock
		p.Available = newStock > 0
		return nil
	})
	if err != nil {
		h.logger.Error("❌ Error updating stock", zap.Error(err), zap.String("product_id", productID))
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("stock.new", updated.Stock),
		attribute.Bool("stock.available", updated.Available),
	)
	span.SetStatus(codes.Ok, "Stock updated")
	h.logger.Info("✅ Updated stock", zap.String("product_id", productID), zap.Int("stock", updated.Stock))
	return updated, nil
}

// ApplyBulkConsumption subtracts each entry's amount in input order.
//
// Unlike ApplyDelta, stock is not floored at zero and Available is only cleared when
// stock lands exactly on zero. Processing stops at the first failing entry; entries
// before it stay persisted and are returned in applied.
func (h *StockHandler) ApplyBulkConsumption(ctx context.Context, entries []StockConsumption) ([]BulkResult, error) {
	ctx, span := h.tracer.Start(ctx, "stock.apply_bulk_consumption")
	defer span.End()

	span.SetAttributes(attribute.Int("stock.entries", len(entries)))
	h.logger.Info("📉 Reducing stock", zap.Int("entries", len(entries)))

	applied := make([]BulkResult, 0, len(entries))
	for i, entry := range entries {
		saved, err := mutate(ctx, h.store, h.logger, h.saveAttempts, entry.ProductID, func(p *Product) error {
			p.Stock -= entry.ProductAmountBought
			if p.Stock == 0 {
				p.Available = false
			}
			return nil
		})
		if err != nil {
			err = fmt.Errorf("entry %d (product %s): %w", i, entry.ProductID, err)
			h.logger.Error("❌ Error reducing stock",
				zap.Error(err),
				zap.Int("entry", i),
				zap.Int("applied", len(applied)),
			)
			span.SetAttributes(attribute.Int("stock.entries_applied", len(applied)))
			recordError(span, err)
			return applied, err
		}

		applied = append(applied, BulkResult{
			ProductID:    saved.ID,
			AmountBought: entry.ProductAmountBought,
			Stock:        saved.Stock,
			Available:    saved.Available,
		})
	}

	span.SetAttributes(attribute.Int("stock.entries_applied", len(applied)))
	span.SetStatus(codes.Ok, "Stock reduced")
	return applied, nil
}

// RouteEvent decodes a serialized envelope and dispatches it by kind. Unknown kinds
// are logged and ignored. The decoded kind is returned even when dispatch fails.
func (h *StockHandler) RouteEvent(ctx context.Context, raw []byte) (EventKind, error) {
	ev, err := DecodeStockEvent(raw)
	if err != nil {
		h.logger.Error("❌ Invalid stock event", zap.Error(err), zap.ByteString("raw_value", raw))
		return EventUnknown, err
	}

	h.logger.Info("📨 Received event", zap.String("event", ev.Name))

	switch ev.Kind {
	case EventUpdateProductStock:
		_, err = h.ApplyDelta(ctx, ev.Update.ProductID, ev.Update.QuantityChange)
	case EventReduceProductStock:
		_, err = h.ApplyBulkConsumption(ctx, ev.Consumption)
	case EventUnknown:
		h.logger.Warn("⚠️ Unknown event", zap.String("event", ev.Name))
	}
	return ev.Kind, err
}

// mutate runs a fetch, apply, save cycle for id, starting over when the save loses a
// version race. apply errors abort without writing.
func mutate(ctx context.Context, store Store, logger observability.Logger, attempts int, id string, apply func(*Product) error) (*Product, error) {
	for attempt := 1; ; attempt++ {
		p, err := store.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := apply(p); err != nil {
			return nil, err
		}

		saved, err := store.Save(ctx, *p)
		if errors.Is(err, ErrVersionConflict) && attempt < attempts {
			logger.Warn("⚠️ Version conflict, retrying",
				zap.String("product_id", id),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		return saved, nil
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"productservice/internal/platform/observability"
	"productservice/internal/product"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserIDHeader identifies the caller for cart and wishlist requests.
const UserIDHeader = "X-User-Id"

type Catalog interface {
	CreateProduct(ctx context.Context, in product.CreateInput) (*product.Product, error)
	ListProducts(ctx context.Context) ([]product.Product, error)
	GetProduct(ctx context.Context, id string) (*product.Product, error)
	UpdateProduct(ctx context.Context, id string, patch product.Patch) (*product.Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]product.Product, error)
	SelectedProducts(ctx context.Context, ids []string) ([]product.Product, error)
	ProductPayload(ctx context.Context, userID, productID string, amount int, kind product.CustomerEventKind) (*product.CustomerEvent, error)
}

type StockUpdater interface {
	ApplyDelta(ctx context.Context, productID string, quantityChange int) (*product.Product, error)
}

type EventPublisher interface {
	PublishCustomerEvent(ctx context.Context, event *product.CustomerEvent) error
	PublishShoppingEvent(ctx context.Context, event *product.CustomerEvent) error
}

// API holds the HTTP handlers and their dependencies.
type API struct {
	catalog   Catalog
	stock     StockUpdater
	publisher EventPublisher
	logger    observability.Logger
}

func NewAPI(catalog Catalog, stock StockUpdater, publisher EventPublisher, logger observability.Logger) *API {
	return &API{
		catalog:   catalog,
		stock:     stock,
		publisher: publisher,
		logger:    logger,
	}
}

type selectionRequest struct {
	IDs []string `json:"ids"`
}

type stockRequest struct {
	QuantityChange *int `json:"quantityChange"`
}

type basketRequest struct {
	ProductID string `json:"productId"`
	Amount    int    `json:"amount"`
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.catalog.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	var in product.CreateInput
	if !decode(w, r, &in) {
		return
	}
	created, err := a.catalog.CreateProduct(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := a.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) updateProduct(w http.ResponseWriter, r *http.Request) {
	var patch product.Patch
	if !decode(w, r, &patch) {
		return
	}
	updated, err := a.catalog.UpdateProduct(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) productsByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := a.catalog.ProductsByCategory(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *API) selectedProducts(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !decode(w, r, &req) {
		return
	}
	products, err := a.catalog.SelectedProducts(r.Context(), req.IDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *API) updateStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if !decode(w, r, &req) {
		return
	}
	if req.QuantityChange == nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "quantityChange is required")
		return
	}
	updated, err := a.stock.ApplyDelta(r.Context(), chi.URLParam(r, "id"), *req.QuantityChange)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) addToWishlist(w http.ResponseWriter, r *http.Request) {
	var req basketRequest
	if !decode(w, r, &req) {
		return
	}
	a.sendBasketEvent(w, r, req.ProductID, 1, product.EventAddToWishlist, false)
}

func (a *API) removeFromWishlist(w http.ResponseWriter, r *http.Request) {
	a.sendBasketEvent(w, r, chi.URLParam(r, "id"), 0, product.EventRemoveFromWishlist, false)
}

func (a *API) addToCart(w http.ResponseWriter, r *http.Request) {
	var req basketRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Amount <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "amount must be > 0")
		return
	}
	a.sendBasketEvent(w, r, req.ProductID, req.Amount, product.EventAddToCart, true)
}

func (a *API) removeFromCart(w http.ResponseWriter, r *http.Request) {
	a.sendBasketEvent(w, r, chi.URLParam(r, "id"), 0, product.EventRemoveFromCart, true)
}

// sendBasketEvent builds the payload for the calling user and publishes it to the
// customer topic, and to the shopping topic when toShopping is set.
func (a *API) sendBasketEvent(w http.ResponseWriter, r *http.Request, productID string, amount int, kind product.CustomerEventKind, toShopping bool) {
	userID := r.Header.Get(UserIDHeader)
	if userID == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", UserIDHeader+" header is required")
		return
	}
	if productID == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "productId is required")
		return
	}

	ctx := r.Context()
	ev, err := a.catalog.ProductPayload(ctx, userID, productID, amount, kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := a.publisher.PublishCustomerEvent(ctx, ev); err != nil {
		writeServiceError(w, err)
		return
	}
	if toShopping {
		if err := a.publisher.PublishShoppingEvent(ctx, ev); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	a.logger.Info("🛒 Basket event published",
		zap.String("event", string(kind)),
		zap.String("user_id", userID),
		zap.String("product_id", productID),
		zap.String("request_id", RequestIDFromContext(ctx)),
	)
	writeJSON(w, http.StatusOK, ev.Data)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

package httpapi

import (
	"net/http"

	"productservice/internal/platform/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(api *API, logger observability.Logger, operation string) http.Handler {
	r := chi.NewRouter()
	r.Use(WithRequestID, WithLogging(logger), middleware.Recoverer)

	r.Get("/healthz", api.health)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", api.listProducts)
		r.Post("/", api.createProduct)
		r.Post("/ids", api.selectedProducts)
		r.Get("/category/{type}", api.productsByCategory)
		r.Get("/{id}", api.getProduct)
		r.Patch("/{id}", api.updateProduct)
		r.Put("/{id}/stock", api.updateStock)
	})

	r.Put("/wishlist", api.addToWishlist)
	r.Delete("/wishlist/{id}", api.removeFromWishlist)
	r.Put("/cart", api.addToCart)
	r.Delete("/cart/{id}", api.removeFromCart)

	return otelhttp.NewHandler(r, operation)
}

// Package handler implements the HTTP API, delegating business logic to the
// injected domain services and repositories.
package handler

import (
	"net/http"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/catalog"
	"github.com/xenking/storefront/internal/domain/checkout"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in catalog responses.
	// When empty, image paths are returned as stored in the database.
	ImageBaseURL string
}

// Handler serves the storefront API.
type Handler struct {
	catalog      catalog.Repository
	carts        *cart.Service
	checkouts    *checkout.Service
	imageBaseURL string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg Config,
	catalogRepo catalog.Repository,
	carts *cart.Service,
	checkouts *checkout.Service,
) *Handler {
	return &Handler{
		catalog:      catalogRepo,
		carts:        carts,
		checkouts:    checkouts,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes registers the API endpoints on a new mux. Authentication wraps the
// cart and checkout routes; catalog browsing is public.
func (h *Handler) Routes(sec *SecurityHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/categories", h.listCategories)
	mux.HandleFunc("GET /api/items", h.listItems)
	mux.HandleFunc("GET /api/items/{slug}", h.getItem)

	mux.Handle("GET /api/cart", sec.Wrap(h.getCart))
	mux.Handle("POST /api/cart/{slug}", sec.Wrap(h.addToCart))
	mux.Handle("DELETE /api/cart/{slug}", sec.Wrap(h.removeFromCart))
	mux.Handle("POST /api/cart/coupon", sec.Wrap(h.applyCoupon))
	mux.Handle("POST /api/checkout", sec.Wrap(h.submitCheckout))

	return mux
}

// imageURL resolves a stored image path against the configured base URL.
func (h *Handler) imageURL(path string) string {
	if path == "" || h.imageBaseURL == "" {
		return path
	}
	return h.imageBaseURL + path
}

// Package handler exposes the order service over a JSON HTTP API.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/photoprint-orders/internal/domain/catalog"
	"github.com/xenking/photoprint-orders/internal/domain/order"
)

// Handler holds the HTTP endpoints. Business logic lives in the order
// service; the handler only decodes requests, maps errors, and shapes
// responses.
type Handler struct {
	orders  *order.Service
	catalog catalog.Catalog
}

// NewHandler constructs a Handler over the order service and the catalog
// used for the price table endpoint.
func NewHandler(orders *order.Service, cat catalog.Catalog) *Handler {
	return &Handler{
		orders:  orders,
		catalog: cat,
	}
}

// Routes returns the API route tree. The admin endpoints (listing, status
// update) carry no authentication; deployments must gate them upstream.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/catalog", h.getCatalog)
	r.Post("/quote", h.quoteCart)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.checkout)
		r.Get("/", h.listOrders)
		r.Get("/{id}", h.getOrder)
		r.Post("/{id}/pay", h.markPaid)
	})

	return r
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/photoprint-orders/internal/domain/order"
	"github.com/xenking/photoprint-orders/internal/domain/pricing"
)

// Request/response shapes. Money fields are emitted as plain JSON numbers
// with two fractional digits of significance.

type quoteRequest struct {
	Items order.Cart `json:"items"`
}

type quoteResponse struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

type checkoutRequest struct {
	CustomerName string     `json:"customer_name"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Items        order.Cart `json:"items"`
}

type orderResponse struct {
	ID           int64      `json:"id"`
	CustomerName string     `json:"customer_name"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Items        order.Cart `json:"items"`
	Subtotal     float64    `json:"subtotal"`
	Discount     float64    `json:"discount"`
	Total        float64    `json:"total"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

type orderSummary struct {
	ID           int64      `json:"id"`
	CustomerName string     `json:"customer_name"`
	Items        order.Cart `json:"items"`
	Total        float64    `json:"total"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

func quoteToResponse(q pricing.Quote) quoteResponse {
	return quoteResponse{
		Subtotal: q.Subtotal.InexactFloat64(),
		Discount: q.Discount.InexactFloat64(),
		Total:    q.Total.InexactFloat64(),
	}
}

func orderToResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Address:      o.Address,
		Phone:        o.Phone,
		Email:        o.Email,
		Items:        o.Items,
		Subtotal:     o.Subtotal.InexactFloat64(),
		Discount:     o.Discount.InexactFloat64(),
		Total:        o.Total.InexactFloat64(),
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
	}
}

// quoteCart prices a cart without persisting anything. Unknown sizes and
// unusable quantities zero out instead of failing; only an unparseable body
// is rejected.
func (h *Handler) quoteCart(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, quoteToResponse(h.orders.Quote(req.Items)))
}

// checkout prices the cart, persists a pending order, and returns it with
// its assigned id for the confirmation page.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.Checkout(r.Context(), order.Customer{
		Name:    req.CustomerName,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}, req.Items)
	if err != nil {
		h.mapError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, orderToResponse(o))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		h.mapError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orderToResponse(o))
}

// markPaid applies the one modeled status transition. Repeating it on a
// paid order succeeds with the same outcome.
func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	if err := h.orders.MarkPaid(r.Context(), id); err != nil {
		h.mapError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listOrders returns order summaries, most recent first. ?status=paid
// narrows to the processing view.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var f order.Filter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := order.Status(raw)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "unknown status "+strconv.Quote(raw))
			return
		}
		f.Status = &status
	}

	orders, err := h.orders.List(r.Context(), f)
	if err != nil {
		h.mapError(w, r, err)
		return
	}

	summaries := make([]orderSummary, len(orders))
	for i := range orders {
		o := &orders[i]
		summaries[i] = orderSummary{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			Items:        o.Items,
			Total:        o.Total.InexactFloat64(),
			Status:       string(o.Status),
			CreatedAt:    o.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, summaries)
}

// getCatalog exposes the price table and active deals for the order form.
func (h *Handler) getCatalog(w http.ResponseWriter, _ *http.Request) {
	type deal struct {
		Size        string  `json:"size"`
		Quantity    int     `json:"qty"`
		BundlePrice float64 `json:"bundle_price"`
	}

	prices := make(map[string]float64, len(h.catalog.Sizes()))
	for _, size := range h.catalog.Sizes() {
		prices[size] = h.catalog.UnitPrice(size).InexactFloat64()
	}

	rules := h.catalog.Rules()
	deals := make([]deal, len(rules))
	for i, rule := range rules {
		deals[i] = deal{
			Size:        rule.Size,
			Quantity:    rule.Quantity,
			BundlePrice: rule.Price.InexactFloat64(),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"prices": prices,
		"deals":  deals,
	})
}

// orderID parses the id route parameter. Non-numeric ids are treated as
// unknown orders rather than bad requests.
func orderID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

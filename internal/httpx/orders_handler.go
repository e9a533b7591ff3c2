package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopd/go-order-fulfillment/internal/fulfillment"
	"github.com/shopd/go-order-fulfillment/internal/orders"
)

// Submitter is what the handler needs from the fulfillment service.
type Submitter interface {
	Submit(ctx context.Context, req fulfillment.OrderRequest) (orders.Order, error)
	ListOrders(ctx context.Context) ([]orders.Order, error)
}

type OrdersHandler struct {
	Service Submitter
}

type CreateOrderReq struct {
	ProductList []string `json:"productList"`
	UserID      string   `json:"userId"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/", h.createOrder)
	r.Get("/", h.listOrders)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.Service.Submit(ctx, fulfillment.OrderRequest{
		UserID:     req.UserID,
		ProductIDs: req.ProductList,
	})
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// writeSubmitError maps the workflow taxonomy onto status codes: anything
// the caller can fix is a 400, store/publish trouble is a 500. A
// ProductsNotFoundError answers with the full list of failed identifiers.
func (h *OrdersHandler) writeSubmitError(w http.ResponseWriter, err error) {
	var userErr *fulfillment.UserNotFoundError
	var prodErr *fulfillment.ProductsNotFoundError

	switch {
	case errors.Is(err, fulfillment.ErrEmptyProductList):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Product list cannot be empty"})
	case errors.As(err, &userErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Error from Order - User not found"})
	case errors.As(err, &prodErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": prodErr.Reasons()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create order or send event"})
	}
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Service.ListOrders(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

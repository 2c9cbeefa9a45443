package http

import (
	"context"
	"net/http"

	"github.com/fjod/go_cart/fitstore/internal/cart"
	"github.com/fjod/go_cart/fitstore/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, s.Cart.Snapshot())
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s := sessionFromContext(r.Context())

	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity <= 0 || quantity > cart.MaxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if !product.InStock {
		respondError(w, http.StatusConflict, "out_of_stock", "product is out of stock")
		return
	}

	if err := s.AddItem(*product, quantity); err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(ctx).Debug("item added to cart",
		zap.String("product_id", product.ID),
		zap.Int("quantity", quantity))
	respondJSON(w, http.StatusCreated, s.Cart.Snapshot())
}

// UpdateQuantity sets the quantity of a line item. Zero removes it.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == nil || *req.Quantity < 0 || *req.Quantity > cart.MaxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	if err := s.SetQuantity(chi.URLParam(r, "product_id"), *req.Quantity); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Cart.Snapshot())
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	if err := s.RemoveItem(chi.URLParam(r, "product_id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Cart.Snapshot())
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	if err := s.ClearCart(); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Cart.Snapshot())
}

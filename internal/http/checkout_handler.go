package http

import (
	"net/http"

	"github.com/fjod/go_cart/fitstore/internal/payment"
	"github.com/fjod/go_cart/fitstore/pkg/logger"
	"go.uber.org/zap"
)

type SelectAddressRequestDTO struct {
	AddressID string `json:"address_id"`
}

type SelectPaymentRequestDTO struct {
	PaymentMethodID string `json:"payment_method_id"`
}

func (h *Handler) PaymentMethods(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, payment.Methods())
}

// BeginCheckout enters checkout at the address step. An empty cart is
// answered with 412 and details "CART" so the client can send the shopper
// back to the cart.
func (h *Handler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	if err := s.Checkout.Begin(); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Checkout.State())
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, s.Checkout.State())
}

// CancelCheckout leaves checkout. Selections are dropped, the cart is kept.
func (h *Handler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	if err := s.CancelCheckout(); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Checkout.State())
}

func (h *Handler) SelectAddress(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	var req SelectAddressRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := s.SelectAddress(req.AddressID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Checkout.State())
}

func (h *Handler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	var req SelectPaymentRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := payment.Lookup(req.PaymentMethodID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.Checkout.SelectPayment(m)
	respondJSON(w, http.StatusOK, s.Checkout.State())
}

func (h *Handler) NextStep(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	if _, err := s.Checkout.Next(); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Checkout.State())
}

func (h *Handler) PreviousStep(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	s.Checkout.Back()
	respondJSON(w, http.StatusOK, s.Checkout.State())
}

// PlaceOrder submits the order. It uses the request context directly; the
// flow applies its own per-attempt timeout.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	order, err := s.PlaceOrder(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int64("total", order.Totals.Total))
	respondJSON(w, http.StatusCreated, order)
}

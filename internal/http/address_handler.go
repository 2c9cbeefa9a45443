package http

import (
	"net/http"

	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/go-chi/chi/v5"
)

type AddressListResponse struct {
	Addresses         []domain.Address `json:"addresses"`
	SelectedAddressID string           `json:"selected_address_id,omitempty"`
	DefaultAddressID  string           `json:"default_address_id,omitempty"`
}

func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	resp := AddressListResponse{
		Addresses:         s.Addresses.List(),
		SelectedAddressID: s.Checkout.SelectedAddressID(),
	}
	if def, ok := s.Addresses.Default(); ok {
		resp.DefaultAddressID = def.ID
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) AddAddress(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	var a domain.Address
	if !decodeJSON(w, r, &a) {
		return
	}

	added, err := s.AddAddress(a)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, added)
}

func (h *Handler) EditAddress(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	var a domain.Address
	if !decodeJSON(w, r, &a) {
		return
	}
	a.ID = chi.URLParam(r, "id")

	edited, err := s.EditAddress(a)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, edited)
}

func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	if err := s.DeleteAddress(chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Package http is the REST surface of the storefront.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/catalog"
	"github.com/fjod/go_cart/fitstore/internal/domain"
)

// Catalog is the product catalog as the handlers see it.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, f catalog.Filter) ([]domain.Product, error)
	Recommend(ctx context.Context, answers catalog.QuizAnswers) (catalog.QuizResult, error)
	Related(ctx context.Context, id string) ([]domain.Product, error)
}

type Handler struct {
	sessions Sessions
	catalog  Catalog
	timeout  time.Duration
}

func NewHandler(sessions Sessions, c Catalog, timeout time.Duration) *Handler {
	return &Handler{
		sessions: sessions,
		catalog:  c,
		timeout:  timeout,
	}
}

type SessionResponse struct {
	Token string `json:"token"`
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	_, token, err := h.sessions.Create()
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set(SessionHeader, token)
	respondJSON(w, http.StatusCreated, SessionResponse{Token: token})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

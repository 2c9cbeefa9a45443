package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/fjod/go_cart/fitstore/internal/catalog"
	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	f, msg := parseFilter(r)
	if msg != "" {
		respondError(w, http.StatusBadRequest, "invalid_filter", msg)
		return
	}

	products, err := h.catalog.List(ctx, f)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func parseFilter(r *http.Request) (catalog.Filter, string) {
	q := r.URL.Query()
	f := catalog.Filter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     catalog.SortOrder(q.Get("sort")),
	}
	if f.Sort == "" {
		f.Sort = catalog.SortName
	}
	if !f.Sort.Valid() {
		return f, "sort must be one of name, price-low, price-high, rating"
	}

	var err error
	if v := q.Get("min_price"); v != "" {
		if f.MinPrice, err = strconv.ParseInt(v, 10, 64); err != nil || f.MinPrice < 0 {
			return f, "min_price must be a non-negative integer"
		}
	}
	if v := q.Get("max_price"); v != "" {
		if f.MaxPrice, err = strconv.ParseInt(v, 10, 64); err != nil || f.MaxPrice < 0 {
			return f, "max_price must be a non-negative integer"
		}
	}
	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return f, "min_price must not exceed max_price"
	}
	if v := q.Get("min_rating"); v != "" {
		if f.MinRating, err = strconv.ParseFloat(v, 64); err != nil || f.MinRating < 0 || f.MinRating > 5 {
			return f, "min_rating must be between 0 and 5"
		}
	}
	return f, ""
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, err := h.catalog.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) RelatedProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.Related(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var answers catalog.QuizAnswers
	if !decodeJSON(w, r, &answers) {
		return
	}

	res, err := h.catalog.Recommend(ctx, answers)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	Logger             *zap.Logger
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.Compress(5))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(LimitBody(cfg.MaxRequestBodySize))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", h.CreateSession)

		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/products/{id}/related", h.RelatedProducts)
		r.Post("/recommendations", h.Recommend)
		r.Get("/payment-methods", h.PaymentMethods)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(h.sessions))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)
				r.Post("/items", h.AddItem)
				r.Put("/items/{product_id}", h.UpdateQuantity)
				r.Delete("/items/{product_id}", h.RemoveItem)
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", h.ListAddresses)
				r.Post("/", h.AddAddress)
				r.Put("/{id}", h.EditAddress)
				r.Delete("/{id}", h.DeleteAddress)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", h.BeginCheckout)
				r.Get("/", h.GetCheckout)
				r.Delete("/", h.CancelCheckout)
				r.Put("/address", h.SelectAddress)
				r.Put("/payment", h.SelectPayment)
				r.Post("/next", h.NextStep)
				r.Post("/back", h.PreviousStep)
				r.Post("/orders", h.PlaceOrder)
			})
		})
	})

	return otelhttp.NewHandler(r, "fitstore")
}

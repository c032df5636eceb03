// Package server is the storefront backend: auth, catalog, cart, orders
// and payment intents behind a chi router. It exists so the checkout
// client has a real contract to run against in development and tests.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Json604/labubu-ecom/internal/server/cache"
	"github.com/Json604/labubu-ecom/internal/server/repository"
)

type Config struct {
	JWTSecret      string
	TokenTTL       time.Duration
	ProviderKeyID  string
	RequestTimeout time.Duration
}

type Server struct {
	cfg    Config
	repo   *repository.Repository
	cache  cache.CartCache
	router chi.Router
}

func New(cfg Config, repo *repository.Repository, cartCache cache.CartCache) *Server {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	s := &Server{
		cfg:   cfg,
		repo:  repo,
		cache: cartCache,
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/products", s.handleListProducts)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)

			r.Get("/cart", s.handleGetCart)
			r.Post("/cart/add", s.handleAddToCart)
			r.Delete("/cart/clear", s.handleClearCart)

			r.Post("/orders", s.handleCreateOrder)
			r.Get("/orders", s.handleListOrders)
			r.Get("/orders/{id}", s.handleGetOrder)
			r.Post("/orders/{id}/cancel", s.handleCancelOrder)

			r.Post("/payments/create", s.handleCreatePayment)
		})

		// The provider calls back without a user token; in development
		// the client plays the provider's part after the widget closes.
		r.Post("/webhooks/payment/test", s.handlePaymentWebhookTest)
	})

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Json604/labubu-ecom/internal/server/cache"
	"github.com/Json604/labubu-ecom/internal/server/repository"
)

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// handleGetCart is cache-aside: serve from Redis when present, otherwise
// read through the database and populate the cache. Cache failures are
// logged and ignored; the database is always the source of truth.
func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	items, err := s.cache.Get(r.Context(), userID)
	if err == nil {
		respondJSON(w, http.StatusOK, items)
		return
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("cart cache read failed for user %s: %v", userID, err)
	}

	items, err = s.repo.CartItems(r.Context(), userID)
	if err != nil {
		log.Printf("failed to load cart: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	if err := s.cache.Set(r.Context(), userID, items); err != nil {
		log.Printf("cart cache write failed for user %s: %v", userID, err)
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "productId and a positive quantity are required")
		return
	}

	product, err := s.repo.ProductByID(r.Context(), req.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		log.Printf("failed to load product: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}
	if product.Stock < req.Quantity {
		respondError(w, http.StatusBadRequest, "insufficient_stock", "not enough stock for "+product.Name)
		return
	}

	item, err := s.repo.UpsertCartItem(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("failed to add to cart: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add to cart")
		return
	}
	item.Product = product

	s.invalidateCart(r, userID)
	respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	if err := s.repo.ClearCart(r.Context(), userID); err != nil {
		log.Printf("failed to clear cart: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}
	s.invalidateCart(r, userID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) invalidateCart(r *http.Request, userID string) {
	if err := s.cache.Delete(r.Context(), userID); err != nil {
		log.Printf("cart cache invalidation failed for user %s: %v", userID, err)
	}
}

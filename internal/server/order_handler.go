package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Json604/labubu-ecom/internal/domain"
	"github.com/Json604/labubu-ecom/internal/server/repository"
)

// handleCreateOrder turns the user's cart into a CREATED order: line
// prices are snapshotted from the catalog, stock is decremented, and the
// cart is cleared. An empty cart is a 400 so the client never produces a
// zero-amount order.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	cartItems, err := s.repo.CartItems(r.Context(), userID)
	if err != nil {
		log.Printf("failed to load cart: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}
	if len(cartItems) == 0 {
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
		return
	}

	order := &domain.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    domain.OrderStatusCreated,
		CreatedAt: time.Now().UTC(),
	}
	for _, item := range cartItems {
		if item.Product == nil {
			respondError(w, http.StatusBadRequest, "invalid_cart",
				"cart references a product that no longer exists")
			return
		}
		if item.Product.Stock < item.Quantity {
			respondError(w, http.StatusBadRequest, "insufficient_stock",
				"not enough stock for "+item.Product.Name)
			return
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
		order.TotalAmount += item.Product.Price * float64(item.Quantity)
	}

	for i, item := range order.Items {
		if err := s.repo.AdjustStock(r.Context(), item.ProductID, -item.Quantity); err != nil {
			// Undo the decrements already applied before reporting failure.
			for _, done := range order.Items[:i] {
				if rerr := s.repo.AdjustStock(r.Context(), done.ProductID, done.Quantity); rerr != nil {
					log.Printf("failed to restore stock for %s: %v", done.ProductID, rerr)
				}
			}
			respondError(w, http.StatusBadRequest, "insufficient_stock", "not enough stock")
			return
		}
	}

	if err := s.repo.CreateOrder(r.Context(), order); err != nil {
		log.Printf("failed to create order: %v", err)
		for _, done := range order.Items {
			if rerr := s.repo.AdjustStock(r.Context(), done.ProductID, done.Quantity); rerr != nil {
				log.Printf("failed to restore stock for %s: %v", done.ProductID, rerr)
			}
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create order")
		return
	}

	if err := s.repo.ClearCart(r.Context(), userID); err != nil {
		log.Printf("failed to clear cart after order %s: %v", order.ID, err)
	}
	s.invalidateCart(r, userID)

	log.Printf("order %s created for user %s, total %.2f", order.ID, userID, order.TotalAmount)
	respondJSON(w, http.StatusCreated, order)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := s.userOrder(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	page, size := pagination(r)

	orders, err := s.repo.OrdersByUser(r.Context(), userID, page, size)
	if err != nil {
		log.Printf("failed to list orders: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

type cancelOrderResponse struct {
	domain.Order
	RefundNote string `json:"refundNote,omitempty"`
}

// handleCancelOrder cancels an order and restores the stock its lines had
// taken. A PAID order can be cancelled too; the money side is handed to a
// separate refund process. Only an already-CANCELLED order is rejected.
func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := s.userOrder(w, r)
	if !ok {
		return
	}
	if order.Status == domain.OrderStatusCancelled {
		respondError(w, http.StatusBadRequest, "not_cancellable", "order is already cancelled")
		return
	}
	wasPaid := order.Status == domain.OrderStatusPaid

	if err := s.repo.UpdateOrderStatus(r.Context(), order.ID, domain.OrderStatusCancelled); err != nil {
		log.Printf("failed to cancel order %s: %v", order.ID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to cancel order")
		return
	}
	for _, item := range order.Items {
		if err := s.repo.AdjustStock(r.Context(), item.ProductID, item.Quantity); err != nil {
			log.Printf("failed to restore stock for %s: %v", item.ProductID, err)
		}
	}

	order.Status = domain.OrderStatusCancelled
	resp := cancelOrderResponse{Order: *order}
	if wasPaid {
		resp.RefundNote = "refund will be processed separately"
		log.Printf("order %s cancelled, refund pending", order.ID)
	} else {
		log.Printf("order %s cancelled", order.ID)
	}
	respondJSON(w, http.StatusOK, resp)
}

// userOrder loads the order in the URL and enforces ownership. A foreign
// order reads as 404, not 403, to avoid confirming it exists.
func (s *Server) userOrder(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	orderID := chi.URLParam(r, "id")
	order, err := s.repo.OrderByID(r.Context(), orderID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return nil, false
	}
	if err != nil {
		log.Printf("failed to load order: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return nil, false
	}
	if order.UserID != userIDFromContext(r.Context()) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return nil, false
	}
	return order, true
}

package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Json604/labubu-ecom/internal/domain"
	"github.com/Json604/labubu-ecom/internal/server/repository"
)

type createPaymentRequest struct {
	OrderID string `json:"orderId"`
}

type webhookRequest struct {
	ProviderOrderRef   string `json:"providerOrderRef"`
	Status             string `json:"status"`
	ProviderPaymentRef string `json:"providerPaymentRef,omitempty"`
}

// handleCreatePayment issues a payment intent for a CREATED order. While
// a PENDING attempt exists the same intent is returned again, so an
// abandoned checkout widget can be reopened without minting a second
// provider order. A SUCCESS attempt makes the order unpayable.
func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "orderId is required")
		return
	}

	order, err := s.repo.OrderByID(r.Context(), req.OrderID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		log.Printf("failed to load order: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}
	if order.UserID != userID {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if order.Status != domain.OrderStatusCreated {
		respondError(w, http.StatusBadRequest, "order_not_payable",
			"order is "+order.Status.String()+" and cannot be paid")
		return
	}

	existing, err := s.repo.PaymentByOrderID(r.Context(), order.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Printf("failed to load payment: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load payment")
		return
	}
	if existing != nil {
		switch existing.Status {
		case domain.PaymentStatusSuccess:
			respondError(w, http.StatusBadRequest, "already_paid", "order already has a successful payment")
			return
		case domain.PaymentStatusPending:
			respondJSON(w, http.StatusOK, s.intentFor(existing))
			return
		}
		// FAILED falls through to a fresh attempt.
	}

	payment := &domain.Payment{
		ID:               uuid.NewString(),
		OrderID:          order.ID,
		Amount:           order.TotalAmount,
		Status:           domain.PaymentStatusPending,
		ProviderOrderRef: "pord_" + uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.CreatePayment(r.Context(), payment); err != nil {
		log.Printf("failed to create payment: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create payment")
		return
	}

	log.Printf("payment %s created for order %s", payment.ID, order.ID)
	respondJSON(w, http.StatusCreated, s.intentFor(payment))
}

func (s *Server) intentFor(payment *domain.Payment) domain.PaymentIntent {
	return domain.PaymentIntent{
		PaymentID:        payment.ID,
		OrderID:          payment.OrderID,
		Amount:           payment.Amount,
		Status:           payment.Status.String(),
		ProviderOrderRef: payment.ProviderOrderRef,
		ProviderKeyID:    s.cfg.ProviderKeyID,
	}
}

// handlePaymentWebhookTest stands in for the provider's server-to-server
// confirmation. It is idempotent: repeating a success re-asserts SUCCESS
// and PAID, and a late failure never downgrades a payment that already
// succeeded.
func (s *Server) handlePaymentWebhookTest(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProviderOrderRef == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "providerOrderRef is required")
		return
	}
	if req.Status != "success" && req.Status != "failed" {
		respondError(w, http.StatusBadRequest, "invalid_request", "status must be success or failed")
		return
	}

	payment, err := s.repo.PaymentByProviderRef(r.Context(), req.ProviderOrderRef)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "unknown providerOrderRef")
		return
	}
	if err != nil {
		log.Printf("failed to load payment: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load payment")
		return
	}

	if payment.Status == domain.PaymentStatusSuccess {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	switch req.Status {
	case "success":
		if err := s.repo.UpdatePaymentStatus(r.Context(), payment.ID, domain.PaymentStatusSuccess, req.ProviderPaymentRef); err != nil {
			log.Printf("failed to mark payment %s successful: %v", payment.ID, err)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to update payment")
			return
		}
		if err := s.repo.UpdateOrderStatus(r.Context(), payment.OrderID, domain.OrderStatusPaid); err != nil {
			log.Printf("failed to mark order %s paid: %v", payment.OrderID, err)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to update order")
			return
		}
		log.Printf("payment %s confirmed, order %s is paid", payment.ID, payment.OrderID)
	case "failed":
		if err := s.repo.UpdatePaymentStatus(r.Context(), payment.ID, domain.PaymentStatusFailed, req.ProviderPaymentRef); err != nil {
			log.Printf("failed to mark payment %s failed: %v", payment.ID, err)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to update payment")
			return
		}
		// The order stays CREATED so the user can retry payment.
		log.Printf("payment %s failed for order %s", payment.ID, payment.OrderID)
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

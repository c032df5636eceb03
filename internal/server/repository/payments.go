package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Json604/labubu-ecom/internal/domain"
)

func (r *Repository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, order_id, amount, status, provider_order_ref, provider_payment_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		payment.ID, payment.OrderID, payment.Amount, payment.Status.String(),
		payment.ProviderOrderRef, payment.ProviderPaymentRef, payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// PaymentByOrderID returns the most recent payment attempt for the order.
func (r *Repository) PaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	return r.scanPayment(r.db.QueryRowContext(ctx, `
		SELECT id, order_id, amount, status, provider_order_ref, provider_payment_ref, created_at
		FROM payments
		WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, orderID))
}

func (r *Repository) PaymentByProviderRef(ctx context.Context, providerOrderRef string) (*domain.Payment, error) {
	return r.scanPayment(r.db.QueryRowContext(ctx, `
		SELECT id, order_id, amount, status, provider_order_ref, provider_payment_ref, created_at
		FROM payments
		WHERE provider_order_ref = $1`, providerOrderRef))
}

func (r *Repository) scanPayment(row *sql.Row) (*domain.Payment, error) {
	payment := &domain.Payment{}
	var status string
	err := row.Scan(&payment.ID, &payment.OrderID, &payment.Amount, &status,
		&payment.ProviderOrderRef, &payment.ProviderPaymentRef, &payment.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query payment: %w", err)
	}
	payment.Status = domain.PaymentStatus(status)
	return payment, nil
}

func (r *Repository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, providerPaymentRef string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments SET status = $1, provider_payment_ref = $2 WHERE id = $3`,
		status.String(), providerPaymentRef, id)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

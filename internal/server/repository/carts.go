package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Json604/labubu-ecom/internal/domain"
)

// CartItems returns the user's cart with product data resolved. A line
// whose product has been removed from the catalog comes back with a nil
// Product rather than failing the whole read.
func (r *Repository) CartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ci.id, ci.product_id, ci.quantity,
		       p.id, p.name, p.price, p.edition, p.stock
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var (
			item   domain.CartItem
			pID    sql.NullString
			pName  sql.NullString
			pPrice sql.NullFloat64
			pEd    sql.NullString
			pStock sql.NullInt64
		)
		err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity,
			&pID, &pName, &pPrice, &pEd, &pStock)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		if pID.Valid {
			item.Product = &domain.Product{
				ID:      pID.String,
				Name:    pName.String,
				Price:   pPrice.Float64,
				Edition: pEd.String,
				Stock:   int(pStock.Int64),
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart: %w", err)
	}
	return items, nil
}

// UpsertCartItem adds quantity to an existing line for the product, or
// creates the line when there is none.
func (r *Repository) UpsertCartItem(ctx context.Context, userID, productID string, quantity int) (*domain.CartItem, error) {
	item := &domain.CartItem{ProductID: productID}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, quantity FROM cart_items
		WHERE user_id = $1 AND product_id = $2`,
		userID, productID).Scan(&item.ID, &item.Quantity)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		item.ID = uuid.NewString()
		item.Quantity = quantity
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO cart_items (id, user_id, product_id, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			item.ID, userID, productID, quantity, time.Now().UTC())
		if err != nil {
			return nil, fmt.Errorf("failed to insert cart item: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	default:
		item.Quantity += quantity
		_, err = r.db.ExecContext(ctx,
			`UPDATE cart_items SET quantity = $1 WHERE id = $2`,
			item.Quantity, item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}
	return item, nil
}

func (r *Repository) ClearCart(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Json604/labubu-ecom/internal/domain"
)

// SeedProducts inserts the given products only when the catalog is empty,
// so a dev database comes up with something to sell.
func (r *Repository) SeedProducts(ctx context.Context, products []domain.Product) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range products {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO products (id, name, price, edition, stock, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, p.Name, p.Price, p.Edition, p.Stock, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Name, err)
		}
	}
	return nil
}

func (r *Repository) Products(ctx context.Context, page, size int) (*domain.ProductPage, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM products`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, edition, stock
		FROM products
		ORDER BY name
		LIMIT $1 OFFSET $2`,
		size, page*size)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	pageOut := &domain.ProductPage{
		Products: []domain.Product{},
		Page:     page,
		Size:     size,
		Total:    total,
	}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Edition, &p.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		pageOut.Products = append(pageOut.Products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return pageOut, nil
}

func (r *Repository) ProductByID(ctx context.Context, id string) (*domain.Product, error) {
	p := &domain.Product{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, price, edition, stock FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Edition, &p.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

// AdjustStock applies delta to a product's stock. A negative delta that
// would take stock below zero fails the UPDATE's WHERE clause and reports
// ErrNotFound, so callers can reject oversells without a separate read.
func (r *Repository) AdjustStock(ctx context.Context, productID string, delta int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET stock = stock + $1
		WHERE id = $2 AND stock + $3 >= 0`,
		delta, productID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
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

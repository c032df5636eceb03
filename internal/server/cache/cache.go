package cache

import (
	"context"
	"errors"

	"github.com/Json604/labubu-ecom/internal/domain"
)

// CartCache holds a user's resolved cart lines so the cart read path can
// skip the product join on repeat hits. Writes go through the database
// first; the cache is invalidated, never written, on mutation.
type CartCache interface {
	Get(ctx context.Context, userID string) ([]domain.CartItem, error)
	Set(ctx context.Context, userID string, items []domain.CartItem) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")

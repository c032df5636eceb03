// Package cart reads the server-side cart and derives display totals. Pure
// read plus arithmetic, no mutation.
package cart

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Json604/labubu-ecom/internal/domain"
)

// Gateway is the slice of the backend API the reader needs.
type Gateway interface {
	Cart(ctx context.Context) ([]domain.CartItem, error)
}

// Snapshot is the cart state read at one point in time, decoupled from later
// catalog or cart changes.
type Snapshot struct {
	Items      []domain.CartItem
	CapturedAt time.Time
}

// Total sums the line totals. A line whose product failed to resolve counts
// as zero rather than failing the whole snapshot.
func (s *Snapshot) Total() float64 {
	var total float64
	for _, item := range s.Items {
		if item.Product == nil {
			continue
		}
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount sums quantities, the number shown on the cart badge.
func (s *Snapshot) ItemCount() int {
	var count int
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

func (s *Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

type Reader struct {
	gateway Gateway
	sfg     singleflight.Group // collapses concurrent loads for the same session
}

func NewReader(gateway Gateway) *Reader {
	return &Reader{gateway: gateway}
}

// Load fetches the current cart contents with resolved product data.
func (r *Reader) Load(ctx context.Context) (*Snapshot, error) {
	v, err, _ := r.sfg.Do("cart", func() (interface{}, error) {
		items, err := r.gateway.Cart(ctx)
		if err != nil {
			return nil, err
		}
		return &Snapshot{Items: items, CapturedAt: time.Now()}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

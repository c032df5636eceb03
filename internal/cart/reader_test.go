package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Json604/labubu-ecom/internal/domain"
)

type stubGateway struct {
	items []domain.CartItem
	err   error
	calls int
}

func (s *stubGateway) Cart(ctx context.Context) ([]domain.CartItem, error) {
	s.calls++
	return s.items, s.err
}

func TestSnapshot_TotalSkipsUnresolvedProducts(t *testing.T) {
	snap := &Snapshot{Items: []domain.CartItem{
		{ProductID: "p1", Quantity: 2, Product: &domain.Product{ID: "p1", Price: 100}},
		{ProductID: "p2", Quantity: 3, Product: nil},
		{ProductID: "p3", Quantity: 1, Product: &domain.Product{ID: "p3", Price: 49.5}},
	}}

	assert.Equal(t, 249.5, snap.Total())
	assert.Equal(t, 6, snap.ItemCount())
	assert.False(t, snap.IsEmpty())
}

func TestSnapshot_Empty(t *testing.T) {
	snap := &Snapshot{}
	assert.Zero(t, snap.Total())
	assert.Zero(t, snap.ItemCount())
	assert.True(t, snap.IsEmpty())
}

func TestReader_Load(t *testing.T) {
	gw := &stubGateway{items: []domain.CartItem{{ProductID: "p1", Quantity: 1}}}
	reader := NewReader(gw)

	snap, err := reader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Items, 1)
	assert.False(t, snap.CapturedAt.IsZero())
}

func TestReader_LoadPropagatesError(t *testing.T) {
	wantErr := errors.New("backend down")
	reader := NewReader(&stubGateway{err: wantErr})

	_, err := reader.Load(context.Background())
	assert.ErrorIs(t, err, wantErr)
}

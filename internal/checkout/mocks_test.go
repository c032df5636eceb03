package checkout

import (
	"context"
	"net/http"
	"sync"

	"github.com/Json604/labubu-ecom/internal/api"
	"github.com/Json604/labubu-ecom/internal/domain"
)

var errNotFound = &api.Error{Kind: api.KindNotFound, Message: "not found", HTTPStatus: http.StatusNotFound}

// fakeGateway is a scriptable backend. Orders created through it become
// PAID only when markPaidOnWebhook is set and the success webhook arrives,
// mirroring the real backend's behaviour.
type fakeGateway struct {
	mu sync.Mutex

	orders   map[string]*domain.Order
	payments map[string]*domain.PaymentIntent // keyed by provider ref

	createOrderErr   error
	orderErr         error
	createPaymentErr error
	webhookErr       error

	markPaidOnWebhook bool
	// paidAfterFetches delays the PAID status until the Nth order fetch,
	// simulating webhook processing lag.
	paidAfterFetches int

	createOrderCalls   int
	orderCalls         int
	createPaymentCalls int
	webhookCalls       int

	nextOrder *domain.Order
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		orders:            map[string]*domain.Order{},
		payments:          map[string]*domain.PaymentIntent{},
		markPaidOnWebhook: true,
	}
}

func (g *fakeGateway) seedOrder(order *domain.Order) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders[order.ID] = order
}

func (g *fakeGateway) CreateOrder(ctx context.Context) (*domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createOrderCalls++
	if g.createOrderErr != nil {
		return nil, g.createOrderErr
	}
	order := g.nextOrder
	if order == nil {
		order = &domain.Order{ID: "order-1", TotalAmount: 1599, Status: domain.OrderStatusCreated}
	}
	g.orders[order.ID] = order
	return order, nil
}

func (g *fakeGateway) Order(ctx context.Context, orderID string) (*domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orderCalls++
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	order, ok := g.orders[orderID]
	if !ok {
		return nil, errNotFound
	}
	if order.Status == domain.OrderStatusPaid && g.paidAfterFetches > g.orderCalls {
		// Still processing: report the pre-webhook status.
		stale := *order
		stale.Status = domain.OrderStatusCreated
		return &stale, nil
	}
	copied := *order
	return &copied, nil
}

func (g *fakeGateway) CreatePayment(ctx context.Context, orderID string) (*domain.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createPaymentCalls++
	if g.createPaymentErr != nil {
		return nil, g.createPaymentErr
	}
	order, ok := g.orders[orderID]
	if !ok {
		return nil, errNotFound
	}
	intent := &domain.PaymentIntent{
		PaymentID:        "pay-" + orderID,
		OrderID:          orderID,
		Amount:           order.TotalAmount,
		Status:           domain.PaymentStatusPending.String(),
		ProviderOrderRef: "pord-" + orderID,
		ProviderKeyID:    "rzp_test",
	}
	g.payments[intent.ProviderOrderRef] = intent
	return intent, nil
}

func (g *fakeGateway) PaymentWebhookTest(ctx context.Context, providerOrderRef, status string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.webhookCalls++
	if g.webhookErr != nil {
		return g.webhookErr
	}
	intent, ok := g.payments[providerOrderRef]
	if !ok {
		return errNotFound
	}
	if status == "success" && g.markPaidOnWebhook {
		if order, ok := g.orders[intent.OrderID]; ok {
			order.Status = domain.OrderStatusPaid
		}
	}
	return nil
}

// scriptedProvider returns a fixed outcome and records what it was asked to
// open.
type scriptedProvider struct {
	mu      sync.Mutex
	outcome Outcome
	err     error
	specs   []CheckoutSpec
	opened  chan struct{} // closed on first Open when set
	block   chan struct{} // Open waits on this when set
}

func (p *scriptedProvider) Open(ctx context.Context, spec CheckoutSpec) (Outcome, error) {
	p.mu.Lock()
	p.specs = append(p.specs, spec)
	if p.opened != nil {
		close(p.opened)
		p.opened = nil
	}
	block := p.block
	p.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return Outcome{Kind: OutcomeDismissed}, nil
		}
	}
	return p.outcome, p.err
}

// Package checkout drives a cart through order creation, payment-intent
// creation, the external hosted-checkout widget, and reconciliation of the
// asynchronous outcome back into authoritative order state.
package checkout

import (
	"context"
	"log"
	"sync"

	"github.com/Json604/labubu-ecom/internal/auth"
	"github.com/Json604/labubu-ecom/internal/cart"
	"github.com/Json604/labubu-ecom/internal/domain"
)

// Gateway is the slice of the backend API the orchestration needs.
type Gateway interface {
	CreateOrder(ctx context.Context) (*domain.Order, error)
	Order(ctx context.Context, orderID string) (*domain.Order, error)
	CreatePayment(ctx context.Context, orderID string) (*domain.PaymentIntent, error)
	PaymentWebhookTest(ctx context.Context, providerOrderRef, status string) error
}

// checkoutKey guards cart-level checkout; re-payment attempts are keyed by
// order id instead.
const checkoutKey = "cart"

// Result is the outcome of one checkout or re-payment attempt.
//
// State semantics:
//   - StateIdle: aborted before any durable effect (precondition failure or
//     order creation never happened); Err explains.
//   - StateFailed with Order set: the order exists and stays payable; Err
//     carries the flow kind (network, provider, inconsistent).
//   - StateCancelled: user dismissed the widget; order stays CREATED.
//   - StateSucceeded: authoritative backend status is PAID.
type Result struct {
	State     State
	Order     *domain.Order
	Intent    *domain.PaymentIntent
	ItemCount int
	Reason    string
	Err       error
}

type Orchestrator struct {
	gateway    Gateway
	provider   Provider
	creds      auth.Store
	reconciler *Reconciler

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewOrchestrator(gateway Gateway, provider Provider, creds auth.Store, reconciler *Reconciler) *Orchestrator {
	return &Orchestrator{
		gateway:    gateway,
		provider:   provider,
		creds:      creds,
		reconciler: reconciler,
		inflight:   make(map[string]struct{}),
	}
}

// begin claims the in-flight slot for key. A second trigger while an attempt
// is running is ignored, not queued.
func (o *Orchestrator) begin(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inflight[key]; busy {
		return false
	}
	o.inflight[key] = struct{}{}
	return true
}

// end releases the slot. It runs on every exit path; a wedged slot would
// permanently disable checkout for the session.
func (o *Orchestrator) end(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inflight, key)
}

// Checkout turns the given cart snapshot into a paid order. Preconditions
// fail fast without contacting the API; once the order is created the cart
// is gone and every later failure routes the user to pay that same order.
func (o *Orchestrator) Checkout(ctx context.Context, snap *cart.Snapshot) Result {
	if !o.begin(checkoutKey) {
		return Result{State: StateIdle, Err: ErrAttemptInFlight}
	}
	defer o.end(checkoutKey)

	if o.creds.Token() == "" {
		return Result{State: StateIdle, Err: &FlowError{
			Kind: KindAuthRequired, Message: "sign in to check out", cause: ErrNotAuthenticated,
		}}
	}
	if snap == nil || snap.IsEmpty() {
		return Result{State: StateIdle, Err: &FlowError{
			Kind: KindValidation, Message: "cart is empty", cause: ErrEmptyCart,
		}}
	}

	a := newAttempt()
	if err := a.advance(StateCreatingOrder); err != nil {
		return Result{State: StateIdle, Err: err}
	}

	order, err := o.gateway.CreateOrder(ctx)
	if err != nil {
		// Nothing durable happened; the cart is untouched.
		return Result{State: StateIdle, ItemCount: snap.ItemCount(), Err: flowFromAPI(err)}
	}
	// Point of no return for the cart: the backend cleared it as part of
	// order creation. The order is never silently lost from here on.
	log.Printf("checkout: order %s created, total %.2f", order.ID, order.TotalAmount)

	return o.payAndReconcile(ctx, a, order, snap.ItemCount())
}

// PayOrder runs the payment leg for an existing CREATED order, the loop-back
// path after a failed or dismissed attempt.
func (o *Orchestrator) PayOrder(ctx context.Context, orderID string) Result {
	if !o.begin(orderID) {
		return Result{State: StateIdle, Err: ErrAttemptInFlight}
	}
	defer o.end(orderID)

	if o.creds.Token() == "" {
		return Result{State: StateIdle, Err: &FlowError{
			Kind: KindAuthRequired, Message: "sign in to pay", cause: ErrNotAuthenticated,
		}}
	}

	order, err := o.gateway.Order(ctx, orderID)
	if err != nil {
		return Result{State: StateIdle, Err: flowFromAPI(err)}
	}
	if order.Status != domain.OrderStatusCreated {
		return Result{State: StateIdle, Order: order, Err: &FlowError{
			Kind:    KindValidation,
			Message: "order is not payable in status " + order.Status.String(),
			cause:   ErrOrderNotPayable,
		}}
	}

	a := newAttempt()
	return o.payAndReconcile(ctx, a, order, itemCount(order.Items))
}

func (o *Orchestrator) payAndReconcile(ctx context.Context, a *attempt, order *domain.Order, items int) Result {
	if err := a.advance(StateCreatingPayment); err != nil {
		return Result{State: StateIdle, Order: order, Err: err}
	}

	intent, err := o.gateway.CreatePayment(ctx, order.ID)
	if err != nil {
		// The order survives; never re-issue order creation after a
		// payment-step failure.
		return Result{State: StateFailed, Order: order, ItemCount: items, Err: flowFromAPI(err)}
	}

	if err := a.advance(StateAwaitingCheckout); err != nil {
		return Result{State: StateFailed, Order: order, ItemCount: items, Err: err}
	}

	outcome, err := o.provider.Open(ctx, CheckoutSpec{
		ProviderKeyID:    intent.ProviderKeyID,
		ProviderOrderRef: intent.ProviderOrderRef,
		Amount:           intent.Amount,
		Currency:         "INR",
		Description:      "Order #" + order.ID,
	})
	if err != nil {
		// The widget went away without reporting. Absence of a callback is
		// cancellation, not a technical failure.
		log.Printf("checkout: widget closed without outcome for %s: %v", intent.ProviderOrderRef, err)
		outcome = Outcome{Kind: OutcomeDismissed}
	}

	if err := a.advance(StateReconciling); err != nil {
		return Result{State: StateFailed, Order: order, ItemCount: items, Err: err}
	}

	res := o.reconciler.Resolve(ctx, intent, outcome)
	if err := a.advance(res.State); err != nil {
		return Result{State: StateFailed, Order: order, ItemCount: items, Err: err}
	}

	final := order
	if res.Order != nil {
		final = res.Order
	}
	return Result{
		State:     res.State,
		Order:     final,
		Intent:    intent,
		ItemCount: items,
		Reason:    res.Reason,
		Err:       res.Err,
	}
}

func itemCount(items []domain.OrderItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

package checkout

import (
	"context"
	"log"
	"time"

	"github.com/Json604/labubu-ecom/internal/domain"
)

// DefaultRecheckDelay is the single bounded wait before the one extra order
// re-fetch on the success path. It fires exactly once, never in a loop.
const DefaultRecheckDelay = time.Second

// Resolution is the reconciler's verdict on one payment attempt.
type Resolution struct {
	State  State // StateSucceeded, StateFailed or StateCancelled
	Order  *domain.Order
	Reason string
	Err    error
}

// Reconciler collapses the widget outcome plus the authoritative backend
// order status into a terminal state. The backend always wins: a success
// callback alone never produces StateSucceeded.
type Reconciler struct {
	gateway      Gateway
	recheckDelay time.Duration
}

func NewReconciler(gateway Gateway, recheckDelay time.Duration) *Reconciler {
	if recheckDelay <= 0 {
		recheckDelay = DefaultRecheckDelay
	}
	return &Reconciler{gateway: gateway, recheckDelay: recheckDelay}
}

func (r *Reconciler) Resolve(ctx context.Context, intent *domain.PaymentIntent, outcome Outcome) Resolution {
	switch outcome.Kind {
	case OutcomeDismissed:
		// Cancellation, not a technical failure. No backend mutation; the
		// order stays CREATED and payable.
		return Resolution{State: StateCancelled}

	case OutcomeFailure:
		// The order keeps its current status and remains payable again.
		return Resolution{
			State:  StateFailed,
			Reason: outcome.Reason,
			Err:    &FlowError{Kind: KindProvider, Message: outcome.Reason},
		}

	case OutcomeSuccess:
		return r.resolveSuccess(ctx, intent)
	}

	return Resolution{
		State: StateFailed,
		Err:   &FlowError{Kind: KindInconsistent, Message: "unknown checkout outcome"},
	}
}

func (r *Reconciler) resolveSuccess(ctx context.Context, intent *domain.PaymentIntent) Resolution {
	// Tell the backend the provider-side payment completed, then trust only
	// the re-fetched order. A delayed or forged success signal must never
	// surface a false "payment successful".
	if err := r.gateway.PaymentWebhookTest(ctx, intent.ProviderOrderRef, "success"); err != nil {
		log.Printf("checkout: payment confirmation for %s failed: %v", intent.ProviderOrderRef, err)
	}

	order, err := r.gateway.Order(ctx, intent.OrderID)
	if err == nil && order.Status == domain.OrderStatusPaid {
		return Resolution{State: StateSucceeded, Order: order}
	}

	// Transient inconsistency: wait once, re-fetch once.
	if !sleepCtx(ctx, r.recheckDelay) {
		return Resolution{
			State: StateFailed,
			Order: order,
			Err:   &FlowError{Kind: KindNetwork, Message: "cancelled while confirming payment", cause: ctx.Err()},
		}
	}

	order, err = r.gateway.Order(ctx, intent.OrderID)
	if err != nil {
		return Resolution{
			State: StateFailed,
			Err:   flowFromAPI(err),
		}
	}
	if order.Status == domain.OrderStatusPaid {
		return Resolution{State: StateSucceeded, Order: order}
	}

	return Resolution{
		State: StateFailed,
		Order: order,
		Err: &FlowError{
			Kind:    KindInconsistent,
			Message: "payment reported success but the order is not marked paid",
		},
	}
}

// sleepCtx waits for d and reports false when ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

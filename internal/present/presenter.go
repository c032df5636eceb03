// Package present projects orchestrator results into the small set of
// UI-facing states. Pure read-only projection, no business logic.
package present

import (
	"errors"

	"github.com/Json604/labubu-ecom/internal/checkout"
)

type UIState string

const (
	UIProcessing UIState = "processing"
	UISuccess    UIState = "success"
	UIFailed     UIState = "failed"
	UICancelled  UIState = "cancelled"
)

// View is everything a terminal screen (or page) needs to render one
// checkout outcome. Every terminal state carries exit actions: a way back to
// the order and a way back to shopping.
type View struct {
	State     UIState
	OrderID   string
	Amount    float64
	ItemCount int
	Message   string

	// Exit actions. ViewOrderPath is empty when no order exists yet.
	ViewOrderPath        string
	ContinueShoppingPath string

	// RetryPayment marks outcomes where the existing order should be paid
	// again rather than checkout restarted.
	RetryPayment bool

	// SignInRequired routes to authentication instead of showing an error.
	SignInRequired bool
}

// Project renders a checkout result. It never mutates the result.
func Project(res checkout.Result) View {
	v := View{
		ItemCount:            res.ItemCount,
		ContinueShoppingPath: "/",
	}
	if res.Order != nil {
		v.OrderID = res.Order.ID
		v.Amount = res.Order.TotalAmount
		v.ViewOrderPath = "/order/" + res.Order.ID
	}

	switch res.State {
	case checkout.StateSucceeded:
		v.State = UISuccess
		v.Message = "Payment successful"
		return v

	case checkout.StateCancelled:
		v.State = UICancelled
		v.Message = "Payment cancelled"
		v.RetryPayment = v.OrderID != ""
		return v

	case checkout.StateFailed:
		v.State = UIFailed
		v.Message = failureMessage(res)
		v.RetryPayment = v.OrderID != ""
		return v
	}

	// Non-terminal states, including attempts rejected because one is
	// already in flight, render as processing.
	if res.Err != nil && !errors.Is(res.Err, checkout.ErrAttemptInFlight) {
		v.State = UIFailed
		v.Message = failureMessage(res)
		if flowErr, ok := checkout.AsFlowError(res.Err); ok && flowErr.Kind == checkout.KindAuthRequired {
			v.SignInRequired = true
		}
		return v
	}
	v.State = UIProcessing
	v.Message = "Processing payment"
	return v
}

func failureMessage(res checkout.Result) string {
	if res.Reason != "" {
		return "Payment failed: " + res.Reason
	}
	if flowErr, ok := checkout.AsFlowError(res.Err); ok {
		switch flowErr.Kind {
		case checkout.KindInconsistent:
			return "Payment could not be confirmed, please check the order status"
		default:
			return flowErr.Message
		}
	}
	if res.Err != nil {
		return res.Err.Error()
	}
	return "Something went wrong with your payment"
}

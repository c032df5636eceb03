package present

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Json604/labubu-ecom/internal/checkout"
	"github.com/Json604/labubu-ecom/internal/domain"
)

func paidOrder() *domain.Order {
	return &domain.Order{ID: "o1", TotalAmount: 1599, Status: domain.OrderStatusPaid}
}

func TestProject_Success(t *testing.T) {
	v := Project(checkout.Result{
		State:     checkout.StateSucceeded,
		Order:     paidOrder(),
		ItemCount: 2,
	})

	assert.Equal(t, UISuccess, v.State)
	assert.Equal(t, "o1", v.OrderID)
	assert.Equal(t, 1599.0, v.Amount)
	assert.Equal(t, 2, v.ItemCount)
	assert.Equal(t, "/order/o1", v.ViewOrderPath)
	assert.Equal(t, "/", v.ContinueShoppingPath)
	assert.False(t, v.RetryPayment)
}

func TestProject_CancelledOffersRetry(t *testing.T) {
	v := Project(checkout.Result{
		State: checkout.StateCancelled,
		Order: &domain.Order{ID: "o1", Status: domain.OrderStatusCreated},
	})

	assert.Equal(t, UICancelled, v.State)
	assert.True(t, v.RetryPayment)
	assert.Equal(t, "/order/o1", v.ViewOrderPath)
}

func TestProject_FailedWithProviderReason(t *testing.T) {
	v := Project(checkout.Result{
		State:  checkout.StateFailed,
		Order:  &domain.Order{ID: "o1"},
		Reason: "card declined by issuer",
	})

	assert.Equal(t, UIFailed, v.State)
	assert.Equal(t, "Payment failed: card declined by issuer", v.Message)
	assert.True(t, v.RetryPayment)
}

func TestProject_FailedWithoutOrderHasNoRetry(t *testing.T) {
	v := Project(checkout.Result{
		State: checkout.StateFailed,
		Err:   &checkout.FlowError{Kind: checkout.KindNetwork, Message: "backend temporarily unavailable"},
	})

	assert.Equal(t, UIFailed, v.State)
	assert.False(t, v.RetryPayment)
	assert.Empty(t, v.ViewOrderPath)
	assert.Equal(t, "backend temporarily unavailable", v.Message)
}

func TestProject_InconsistentGetsCalmMessage(t *testing.T) {
	v := Project(checkout.Result{
		State: checkout.StateFailed,
		Order: &domain.Order{ID: "o1"},
		Err:   &checkout.FlowError{Kind: checkout.KindInconsistent, Message: "not marked paid"},
	})

	assert.Equal(t, UIFailed, v.State)
	assert.Equal(t, "Payment could not be confirmed, please check the order status", v.Message)
}

func TestProject_InFlightRendersProcessing(t *testing.T) {
	v := Project(checkout.Result{
		State: checkout.StateIdle,
		Err:   checkout.ErrAttemptInFlight,
	})

	assert.Equal(t, UIProcessing, v.State)
}

func TestProject_AuthRequiredRoutesToSignIn(t *testing.T) {
	v := Project(checkout.Result{
		State: checkout.StateIdle,
		Err:   &checkout.FlowError{Kind: checkout.KindAuthRequired, Message: "sign in to check out"},
	})

	assert.Equal(t, UIFailed, v.State)
	assert.True(t, v.SignInRequired)
}

package checkout

import (
	"errors"
	"fmt"

	"github.com/Json604/labubu-ecom/internal/api"
)

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to check out")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrAttemptInFlight   = errors.New("a checkout attempt is already in flight")
	ErrOrderNotPayable   = errors.New("order is not payable")
	ErrIllegalTransition = errors.New("illegal transition of checkout state")
)

// FlowKind classifies a checkout failure for presentation. User dismissal is
// deliberately absent: it is a state, not an error.
type FlowKind string

const (
	KindValidation   FlowKind = "validation"    // precondition failed, no network call made
	KindAuthRequired FlowKind = "auth_required" // route to authentication, not an error toast
	KindNetwork      FlowKind = "network"       // backend unreachable or server failure
	KindProvider     FlowKind = "provider"      // external checkout reported failure
	KindInconsistent FlowKind = "inconsistent"  // backend disagrees after confirmation + bounded re-fetch
)

type FlowError struct {
	Kind    FlowKind
	Message string
	cause   error
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("checkout: %s: %s", e.Kind, e.Message)
}

func (e *FlowError) Unwrap() error {
	return e.cause
}

// AsFlowError unwraps err to a *FlowError when there is one.
func AsFlowError(err error) (*FlowError, bool) {
	var flowErr *FlowError
	ok := errors.As(err, &flowErr)
	return flowErr, ok
}

// flowFromAPI maps a normalized backend error into the flow taxonomy.
func flowFromAPI(err error) *FlowError {
	apiErr, ok := api.AsError(err)
	if !ok {
		return &FlowError{Kind: KindNetwork, Message: err.Error(), cause: err}
	}
	switch apiErr.Kind {
	case api.KindAuthRequired:
		return &FlowError{Kind: KindAuthRequired, Message: "authentication required", cause: err}
	case api.KindValidation, api.KindNotFound:
		return &FlowError{Kind: KindValidation, Message: apiErr.Message, cause: err}
	default:
		return &FlowError{Kind: KindNetwork, Message: apiErr.Message, cause: err}
	}
}

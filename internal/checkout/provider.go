package checkout

import "context"

// CheckoutSpec is everything the hosted checkout widget needs to collect a
// payment against a previously created intent.
type CheckoutSpec struct {
	ProviderKeyID    string
	ProviderOrderRef string
	Amount           float64
	Currency         string
	Description      string
}

type OutcomeKind int

const (
	OutcomeDismissed OutcomeKind = iota // user closed the widget, no payload
	OutcomeSuccess                      // provider payment reference attached
	OutcomeFailure                      // provider failure reason attached
)

// Outcome is the single signal the widget reports back. Exactly one fires
// per attempt.
type Outcome struct {
	Kind       OutcomeKind
	PaymentRef string // set for OutcomeSuccess
	Reason     string // set for OutcomeFailure
}

// Provider runs the external hosted-checkout step. Open blocks until the
// user finishes with the widget, which may take an unbounded amount of real
// time; implementations should treat ctx cancellation as dismissal.
type Provider interface {
	Open(ctx context.Context, spec CheckoutSpec) (Outcome, error)
}

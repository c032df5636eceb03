package checkout

// State is the position of one checkout attempt in the orchestration
// machine. Attempts move strictly forward; CanTransitionTo is the single
// source of truth for legal moves.
type State string

const (
	StateIdle             State = "IDLE"
	StateCreatingOrder    State = "CREATING_ORDER"
	StateCreatingPayment  State = "CREATING_PAYMENT"
	StateAwaitingCheckout State = "AWAITING_CHECKOUT"
	StateReconciling      State = "RECONCILING"
	StateSucceeded        State = "SUCCEEDED"
	StateFailed           State = "FAILED"
	StateCancelled        State = "CANCELLED"
)

func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

// String representation (for logging)
func (s State) String() string {
	return string(s)
}

var transitions = map[State][]State{
	StateIdle:             {StateCreatingOrder, StateCreatingPayment}, // CreatingPayment: re-paying an existing order
	StateCreatingOrder:    {StateCreatingPayment},
	StateCreatingPayment:  {StateAwaitingCheckout},
	StateAwaitingCheckout: {StateReconciling},
	StateReconciling:      {StateSucceeded, StateFailed, StateCancelled},
}

func CanTransitionTo(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// attempt tracks the machine position of a single checkout run.
type attempt struct {
	state State
}

func newAttempt() *attempt {
	return &attempt{state: StateIdle}
}

func (a *attempt) advance(to State) error {
	if !CanTransitionTo(a.state, to) {
		return ErrIllegalTransition
	}
	a.state = to
	return nil
}

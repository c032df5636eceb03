// Package provider holds checkout.Provider implementations. The real system
// hands control to a hosted widget in the browser; the CLI stands it in with
// an interactive terminal prompt.
package provider

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/Json604/labubu-ecom/internal/checkout"
)

// Terminal simulates the hosted checkout widget on a terminal. It blocks
// until the user answers, mirroring the user-paced nature of the real
// widget, and reports exactly one outcome.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{In: in, Out: out}
}

func (t *Terminal) Open(ctx context.Context, spec checkout.CheckoutSpec) (checkout.Outcome, error) {
	fmt.Fprintf(t.Out, "\n--- hosted checkout ---\n")
	fmt.Fprintf(t.Out, "%s\n", spec.Description)
	fmt.Fprintf(t.Out, "amount: %.2f %s (ref %s)\n", spec.Amount, spec.Currency, spec.ProviderOrderRef)
	fmt.Fprintf(t.Out, "[p]ay / [f]ail / [d]ismiss? ")

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(t.In).ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		// Walking away from the widget is a dismissal, not an error.
		return checkout.Outcome{Kind: checkout.OutcomeDismissed}, nil
	case ans := <-ch:
		if ans.err != nil {
			return checkout.Outcome{Kind: checkout.OutcomeDismissed}, nil
		}
		switch strings.ToLower(strings.TrimSpace(ans.line)) {
		case "p", "pay", "y", "yes":
			return checkout.Outcome{
				Kind:       checkout.OutcomeSuccess,
				PaymentRef: "pay_" + uuid.NewString(),
			}, nil
		case "f", "fail":
			return checkout.Outcome{
				Kind:   checkout.OutcomeFailure,
				Reason: "card declined by issuer",
			}, nil
		default:
			return checkout.Outcome{Kind: checkout.OutcomeDismissed}, nil
		}
	}
}

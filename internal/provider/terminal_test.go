package provider

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Json604/labubu-ecom/internal/checkout"
)

func testSpec() checkout.CheckoutSpec {
	return checkout.CheckoutSpec{
		ProviderKeyID:    "rzp_test",
		ProviderOrderRef: "pord_1",
		Amount:           1599,
		Currency:         "INR",
		Description:      "Order #o1",
	}
}

func TestOpen_PayAnswersSuccess(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("pay\n"), &out)

	outcome, err := term.Open(context.Background(), testSpec())
	require.NoError(t, err)
	assert.Equal(t, checkout.OutcomeSuccess, outcome.Kind)
	assert.True(t, strings.HasPrefix(outcome.PaymentRef, "pay_"))

	assert.Contains(t, out.String(), "Order #o1")
	assert.Contains(t, out.String(), "pord_1")
}

func TestOpen_FailAnswersFailure(t *testing.T) {
	term := NewTerminal(strings.NewReader("f\n"), &bytes.Buffer{})

	outcome, err := term.Open(context.Background(), testSpec())
	require.NoError(t, err)
	assert.Equal(t, checkout.OutcomeFailure, outcome.Kind)
	assert.NotEmpty(t, outcome.Reason)
}

func TestOpen_AnythingElseDismisses(t *testing.T) {
	term := NewTerminal(strings.NewReader("whatever\n"), &bytes.Buffer{})

	outcome, err := term.Open(context.Background(), testSpec())
	require.NoError(t, err)
	assert.Equal(t, checkout.OutcomeDismissed, outcome.Kind)
}

func TestOpen_EOFDismisses(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), &bytes.Buffer{})

	outcome, err := term.Open(context.Background(), testSpec())
	require.NoError(t, err)
	assert.Equal(t, checkout.OutcomeDismissed, outcome.Kind)
}

func TestOpen_ContextCancelDismisses(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// neverReader stands in for a user who walked away from the prompt.
	term := NewTerminal(neverReader{}, &bytes.Buffer{})
	outcome, err := term.Open(ctx, testSpec())
	require.NoError(t, err)
	assert.Equal(t, checkout.OutcomeDismissed, outcome.Kind)
}

type neverReader struct{}

func (neverReader) Read(p []byte) (int, error) {
	time.Sleep(time.Hour)
	return 0, nil
}

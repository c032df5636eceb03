package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

func (s PaymentStatus) String() string {
	return string(s)
}

// Payment is one payment attempt against an order. An order may accumulate
// several attempts over time but only one may be non-terminal at any moment.
type Payment struct {
	ID                 string        `json:"id"`
	OrderID            string        `json:"orderId"`
	Amount             float64       `json:"amount"`
	Status             PaymentStatus `json:"status"`
	ProviderOrderRef   string        `json:"providerOrderRef"`
	ProviderPaymentRef string        `json:"providerPaymentRef,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
}

// PaymentIntent is what the backend returns from POST /payments/create: the
// provider-side expectation of a payment, handed to the checkout widget.
type PaymentIntent struct {
	PaymentID        string  `json:"paymentId"`
	OrderID          string  `json:"orderId"`
	Amount           float64 `json:"amount"`
	Status           string  `json:"status"`
	ProviderOrderRef string  `json:"providerOrderRef"`
	ProviderKeyID    string  `json:"providerKeyId"`
}

package domain

import "time"

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsTerminal reports whether no further payment activity can move the order
// forward. CANCELLED is reachable from both CREATED and PAID (cancel with
// refund), so PAID is terminal only with respect to payment.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem is a line snapshot taken at order creation time. Price is the
// unit price captured from the product at that moment, never re-derived.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId,omitempty"`
	Items       []OrderItem  `json:"items,omitempty"`
	TotalAmount float64      `json:"totalAmount"`
	Status      OrderStatus  `json:"status"`
	Payment     *PaymentInfo `json:"payment,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// PaymentInfo is the payment view embedded in an order response.
type PaymentInfo struct {
	ID               string        `json:"id"`
	Status           PaymentStatus `json:"status"`
	Amount           float64       `json:"amount"`
	ProviderOrderRef string        `json:"providerOrderRef,omitempty"`
}

// OrderPage is one page of order summaries.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Page   int     `json:"page"`
	Size   int     `json:"size"`
	Total  int     `json:"total"`
}

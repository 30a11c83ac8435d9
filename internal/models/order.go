package models

import "github.com/shopspring/decimal"

// OrderItemRef references a product and quantity in an order submission.
// Prices and names are resolved by the backend, not sent by the client.
type OrderItemRef struct {
	ProductID int `json:"productId" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,gt=0"`
}

// SubmittedPayment is the payment record sent with an order. The full card
// number never leaves the checkout wizard.
type SubmittedPayment struct {
	Method         PaymentMethod `json:"method"`
	LastFourDigits string        `json:"lastFourDigits"`
	ExpiryMonth    string        `json:"expiryMonth"`
	ExpiryYear     string        `json:"expiryYear"`
	CardholderName string        `json:"cardholderName"`
}

// OrderSubmission is the payload for POST /orders. Assembled once at place-order
// time from cart, shipping, payment and session identity; never mutated after.
type OrderSubmission struct {
	CustomerEmail string           `json:"customerEmail"`
	CustomerName  string           `json:"customerName"`
	CustomerPhone string           `json:"customerPhone"`
	OrderItems    []OrderItemRef   `json:"orderItems"`
	Shipping      ShippingInfo     `json:"shipping"`
	Payment       SubmittedPayment `json:"payment"`
}

// ConfirmedItem is an order line as expanded by the backend, with the product
// name and line total resolved remotely.
type ConfirmedItem struct {
	ProductID   int             `json:"productId"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	ProductName string          `json:"productName"`
}

// OrderResponse is the raw body returned by POST /orders.
type OrderResponse struct {
	ID          string          `json:"id"`
	CreatedAt   string          `json:"createdAt"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OrderItems  []ConfirmedItem `json:"orderItems"`
}

// OrderConfirmation is the read-only display data shown after a successful
// order. Carries the shipping address forward and a masked payment view.
type OrderConfirmation struct {
	OrderID    string          `json:"orderId"`
	Timestamp  string          `json:"timestamp"`
	Total      decimal.Decimal `json:"total"`
	OrderItems []ConfirmedItem `json:"orderItems"`
	Shipping   ShippingInfo    `json:"shipping"`
	Payment    MaskedPayment   `json:"payment"`
}

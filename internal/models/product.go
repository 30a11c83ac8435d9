package models

import "github.com/shopspring/decimal"

func init() {
	// The backend speaks bare JSON numbers for money.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog entry. Immutable, sourced from the backend catalog.
type Product struct {
	ID    int             `json:"id" binding:"required"`
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

// CartItem is a product plus the quantity in the cart.
// Quantity is always >= 1; items that would drop to 0 are removed instead.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price multiplied by quantity.
func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// CartState is a point-in-time snapshot of the cart. Total and ItemCount are
// derived from Items and recomputed on every mutation.
type CartState struct {
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

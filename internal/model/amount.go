package model

import "github.com/shopspring/decimal"

// Amount is a quantity of a single commodity (currency symbol, ticker, ...).
type Amount struct {
	Quantity  decimal.Decimal
	Commodity string
}

// NewAmount returns an Amount of quantity in commodity.
func NewAmount(quantity decimal.Decimal, commodity string) Amount {
	return Amount{Quantity: quantity, Commodity: commodity}
}

// Reverse returns the amount with its sign flipped.
func (a Amount) Reverse() Amount {
	return Amount{Quantity: a.Quantity.Neg(), Commodity: a.Commodity}
}

// Equal reports whether a and b have the same quantity and commodity.
// Quantities compare numerically, so 150 equals 150.00.
func (a Amount) Equal(b Amount) bool {
	return a.Commodity == b.Commodity && a.Quantity.Equal(b.Quantity)
}

// Cmp compares quantities only: -1 if a < b, 0 if equal, +1 if a > b.
func (a Amount) Cmp(b Amount) int {
	return a.Quantity.Cmp(b.Quantity)
}

// Sign returns -1, 0 or +1.
func (a Amount) Sign() int { return a.Quantity.Sign() }

// IsPositive reports whether the quantity is strictly greater than zero.
func (a Amount) IsPositive() bool { return a.Quantity.IsPositive() }

// String renders "<quantity> <commodity>", e.g. "-150 €".
func (a Amount) String() string {
	if a.Commodity == "" {
		return a.Quantity.String()
	}
	return a.Quantity.String() + " " + a.Commodity
}

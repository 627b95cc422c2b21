// Package money provides fixed-point price arithmetic for carts and
// orders. Prices are decimal values rounded to currency minor units;
// float64 is never used for amounts.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineTotal returns quantity x unit price.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Round normalizes an amount to two decimal places (currency minor units).
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// ToMinorUnits converts an amount to integer minor currency units,
// rounding half up (10.005 -> 1001). Payment gateways take amounts in
// cents.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts integer minor units back to a decimal amount.
func FromMinorUnits(n int64) decimal.Decimal {
	return decimal.NewFromInt(n).Div(hundred)
}

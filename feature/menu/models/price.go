package models

import (
	"github.com/shopspring/decimal"
)

// ParsePrice normalizes an incoming price string to a two-decimal value,
// rounding half-up ("123.456" becomes 123.46).
func ParsePrice(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	if d.IsNegative() {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	return d.Round(2), nil
}

// DisplayPrice returns the price reduced by discount percent, rounded to two
// decimal places. The result is computed at read time and never stored.
func DisplayPrice(price decimal.Decimal, discount int) string {
	if discount > 0 {
		factor := decimal.NewFromInt(int64(100 - discount)).Div(decimal.NewFromInt(100))
		price = price.Mul(factor)
	}
	return price.Round(2).StringFixed(2)
}

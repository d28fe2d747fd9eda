package common

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FormatMoney renders x with exactly two decimals. Halves round away from
// zero, applied to the shortest decimal form of x so that 12.345 renders as
// 12.35 rather than following its binary expansion.
func FormatMoney(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}

// Amount renders price*quantity with two decimals.
func Amount(price float64, quantity uint64) string {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(quantity))).
		StringFixed(2)
}

// Cents converts a price to whole cents, rounding halves away from zero.
// Prices above MaxPrice are outside its range.
func Cents(price float64) int64 {
	return cents(price).IntPart()
}

// CompareCents compares two prices after rounding each to whole cents. It
// has no range limit, unlike subtracting two Cents values.
func CompareCents(a, b float64) int {
	return cents(a).Cmp(cents(b))
}

func cents(price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(hundred).Round(0)
}

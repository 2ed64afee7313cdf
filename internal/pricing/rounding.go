package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	five = decimal.NewFromInt(5)
	nine = decimal.NewFromInt(9)
	ten  = decimal.NewFromInt(10)
	half = decimal.RequireFromString("0.5")
)

// RoundToMenuFriendly rounds x to the closer of the nearest multiple of 5 and
// the nearest price ending in 9. Each candidate rounds half-up, and when both
// are the same distance from x the multiple of 5 wins.
func RoundToMenuFriendly(x decimal.Decimal) (int64, error) {
	if x.IsNegative() {
		return 0, &InvalidInputError{Row: -1, Field: "price", Reason: fmt.Sprintf("cannot round negative price %s", x)}
	}

	nearest5 := x.Div(five).Add(half).Floor().Mul(five)
	nearest9 := x.Sub(nine).Div(ten).Add(half).Floor().Mul(ten).Add(nine)

	if x.Sub(nearest5).Abs().LessThanOrEqual(x.Sub(nearest9).Abs()) {
		return nearest5.IntPart(), nil
	}
	return nearest9.IntPart(), nil
}

// CeilToMenuFriendly returns the smallest multiple of 5 or price ending in 9
// that is at least x.
func CeilToMenuFriendly(x decimal.Decimal) (int64, error) {
	if x.IsNegative() {
		return 0, &InvalidInputError{Row: -1, Field: "price", Reason: fmt.Sprintf("cannot round negative price %s", x)}
	}

	next5 := x.Div(five).Ceil().Mul(five)
	next9 := x.Sub(nine).Div(ten).Floor().Mul(ten).Add(nine)
	if next9.LessThan(x) {
		next9 = next9.Add(ten)
	}

	return decimal.Min(next5, next9).IntPart(), nil
}

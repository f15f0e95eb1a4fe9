// Package money holds the currency arithmetic shared by the cart and the
// payment flow. Amounts are committed with 2-decimal rounding; the payment
// processor works in minor units.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// EffectivePrice applies a percentage discount and rounds to 2 decimals.
func EffectivePrice(price, discountPercent decimal.Decimal) decimal.Decimal {
	if discountPercent.IsZero() {
		return price.Round(2)
	}
	return price.Sub(price.Mul(discountPercent).Div(hundred)).Round(2)
}

// LineTotal multiplies a unit price by a quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// ToMinorUnits converts a 2-decimal amount to the processor's minor unit.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts a processor amount back to a 2-decimal amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// ValidDiscount reports whether a discount percentage is within [0, 100].
func ValidDiscount(discountPercent decimal.Decimal) bool {
	return !discountPercent.IsNegative() && discountPercent.LessThanOrEqual(hundred)
}

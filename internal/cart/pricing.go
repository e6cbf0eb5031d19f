package cart

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// lineSubtotalCents prices one line. Subscription lines get the recurring
// delivery discount on the unit price before multiplying by quantity, and
// the result rounds to whole cents per line.
func lineSubtotalCents(line Line) int64 {
	unit := decimal.NewFromInt(line.Product.PriceCents)
	if line.IsSubscription {
		unit = unit.Mul(decimal.NewFromInt(100 - SubscriptionDiscountPercent)).Div(hundred)
	}
	return unit.Mul(decimal.NewFromInt(line.Quantity)).Round(0).IntPart()
}

// LineSubtotalCents exposes per-line pricing so order lines persist the
// same numbers the cart displayed.
func LineSubtotalCents(line Line) int64 {
	return lineSubtotalCents(line)
}

func subtotalCents(lines []Line) int64 {
	var total int64
	for _, line := range lines {
		total += lineSubtotalCents(line)
	}
	return total
}

// discountCents computes the coupon discount on a subtotal, rounded to
// whole cents.
func discountCents(subtotal, percent int64) int64 {
	if percent <= 0 || subtotal <= 0 {
		return 0
	}
	return decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromInt(percent)).
		Div(hundred).
		Round(0).
		IntPart()
}

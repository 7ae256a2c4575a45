// Package pricing computes configured item prices.
package pricing

import (
	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CentPlaces is the number of fraction digits prices are rounded to.
const CentPlaces = 2

var hundred = decimal.NewFromInt(100)

// Calculate returns the final price of one configured item.
//
// The order of operations is fixed: base price times the multiplier chain,
// then the custom size percentage of that product, then the flat options
// amount, then rounding to cents with halves away from zero. Multipliers
// are not validated.
func Calculate(c domain.PriceComponents) decimal.Decimal {
	price := decimal.NewFromFloat(c.BasePrice).
		Mul(decimal.NewFromFloat(c.MaterialMultiplier)).
		Mul(decimal.NewFromFloat(c.SizeMultiplier)).
		Mul(decimal.NewFromFloat(c.QualityMultiplier))

	if c.CustomSizeAdjustmentPercent != nil {
		pct := decimal.NewFromFloat(*c.CustomSizeAdjustmentPercent)
		price = price.Add(price.Mul(pct).Div(hundred))
	}

	if c.AdditionalOptions != nil {
		price = price.Add(decimal.NewFromFloat(*c.AdditionalOptions))
	}

	return price.Round(CentPlaces)
}

// Format renders an amount with exactly two fraction digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(CentPlaces)
}

// Subtotal is the sum of unit price times quantity over lines, rounded to
// cents.
func Subtotal(lines []domain.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(
			decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))),
		)
	}
	return total.Round(CentPlaces)
}

package model

import "github.com/shopspring/decimal"

// DefaultTaxRate is the tax percentage every invoice in the system is computed with.
const DefaultTaxRate = 10.0

var (
	hundred = decimal.NewFromInt(100)
	// taxiRate is applied by the taxi discount no matter what value the user entered.
	taxiRate = decimal.NewFromInt(10)
)

type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	TaxAmount      float64 `json:"taxAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	Total          float64 `json:"total"`
}

// ComputeTotals derives subtotal, tax, discount and grand total from the line items.
// The grand total is not floored at zero: a large enough discount makes it negative.
func ComputeTotals(items []InvoiceItem, taxRatePercent float64, discountType DiscountType, discountValue float64) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Total))
	}

	taxAmount := subtotal.Mul(decimal.NewFromFloat(taxRatePercent)).Div(hundred)
	discountAmount := computeDiscount(subtotal, discountType, decimal.NewFromFloat(discountValue))
	total := subtotal.Add(taxAmount).Sub(discountAmount)

	return Totals{
		Subtotal:       subtotal.InexactFloat64(),
		TaxAmount:      taxAmount.InexactFloat64(),
		DiscountAmount: discountAmount.InexactFloat64(),
		Total:          total.InexactFloat64(),
	}
}

func computeDiscount(subtotal decimal.Decimal, discountType DiscountType, value decimal.Decimal) decimal.Decimal {
	switch discountType {
	case DiscountPercentage:
		if value.IsPositive() {
			return subtotal.Mul(value).Div(hundred)
		}
	case DiscountFixed:
		if value.IsPositive() {
			return value
		}
	case DiscountTaxi:
		return subtotal.Mul(taxiRate).Div(hundred)
	}
	return decimal.Zero
}

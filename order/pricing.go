package order

import "github.com/shopspring/decimal"

// Quote is the checkout summary shown before booking.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Deposit  decimal.Decimal `json:"deposit"`
	Balance  decimal.Decimal `json:"balance"`
}

// Pricing holds the rates used for quotes and stored totals.
type Pricing struct {
	DepositRate  decimal.Decimal
	DiscountRate decimal.Decimal
}

var DefaultPricing = Pricing{
	DepositRate:  decimal.NewFromFloat(0.5),
	DiscountRate: decimal.NewFromFloat(0.10),
}

// Subtotal is Σ price × quantity.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Quote applies the house discount and splits the rest into deposit and balance.
func (p Pricing) Quote(lines []Line) Quote {
	sub := Subtotal(lines)
	discount := sub.Mul(p.DiscountRate).Round(2)
	total := sub.Sub(discount)
	deposit := total.Mul(p.DepositRate).Round(2)
	return Quote{
		Subtotal: sub,
		Discount: discount,
		Total:    total,
		Deposit:  deposit,
		Balance:  total.Sub(deposit),
	}
}

// Totals returns the amounts stored on an order. The discount is not applied.
func (p Pricing) Totals(lines []Line) (total, paid decimal.Decimal) {
	total = Subtotal(lines)
	return total, total.Mul(p.DepositRate).Round(2)
}

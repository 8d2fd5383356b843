package utils

import (
	"github.com/shopspring/decimal"
)

var decimalOneHundred = decimal.NewFromInt(100)

// CalculateLineTotal is quantity * unit price (or hours * hourly rate).
func CalculateLineTotal(quantity decimal.Decimal, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// CalculateVatAmount is tax-exclusive: subtotal * rate / 100.
func CalculateVatAmount(subtotal decimal.Decimal, vatRate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(vatRate).Div(decimalOneHundred)
}

// CalculateDocumentTotals sums the given line totals and applies VAT on top.
// Empty input yields zero for all three amounts.
func CalculateDocumentTotals(lineTotals []decimal.Decimal, vatRate decimal.Decimal) (subtotal, vatAmount, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, t := range lineTotals {
		subtotal = subtotal.Add(t)
	}
	vatAmount = CalculateVatAmount(subtotal, vatRate)
	total = subtotal.Add(vatAmount)
	return subtotal, vatAmount, total
}

// SplitProportionally divides amount across weights, rounding each share to
// places and putting the rounding remainder on the last share. With all-zero
// weights the whole amount lands on the first share.
func SplitProportionally(amount decimal.Decimal, weights []decimal.Decimal, places int32) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(weights))
	if len(weights) == 0 {
		return shares
	}
	sum := decimal.Zero
	for _, w := range weights {
		sum = sum.Add(w)
	}
	for i := range shares {
		shares[i] = decimal.Zero
	}
	if sum.IsZero() {
		shares[0] = amount
		return shares
	}
	allocated := decimal.Zero
	for i, w := range weights {
		if i == len(weights)-1 {
			shares[i] = amount.Sub(allocated)
			break
		}
		shares[i] = amount.Mul(w).Div(sum).Round(places)
		allocated = allocated.Add(shares[i])
	}
	return shares
}

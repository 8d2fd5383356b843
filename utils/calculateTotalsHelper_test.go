package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateDocumentTotals_SingleItemWithVat(t *testing.T) {
	line := CalculateLineTotal(d("2"), d("50"))
	subtotal, vat, total := CalculateDocumentTotals([]decimal.Decimal{line}, d("21"))

	assert.True(t, subtotal.Equal(d("100")), "subtotal=%s", subtotal)
	assert.True(t, vat.Equal(d("21")), "vat=%s", vat)
	assert.True(t, total.Equal(d("121")), "total=%s", total)
}

func TestCalculateDocumentTotals_Empty(t *testing.T) {
	subtotal, vat, total := CalculateDocumentTotals(nil, d("21"))

	assert.True(t, subtotal.IsZero())
	assert.True(t, vat.IsZero())
	assert.True(t, total.IsZero())
}

func TestCalculateDocumentTotals_TotalMatchesRate(t *testing.T) {
	cases := []struct {
		lines []string
		rate  string
	}{
		{[]string{"33.33", "0.01"}, "21"},
		{[]string{"19.999", "7.125", "1000"}, "9.5"},
		{[]string{"0.333"}, "0"},
		{[]string{"12.5", "12.5"}, "7.75"},
	}
	for _, c := range cases {
		var lines []decimal.Decimal
		for _, l := range c.lines {
			lines = append(lines, d(l))
		}
		rate := d(c.rate)
		subtotal, _, total := CalculateDocumentTotals(lines, rate)

		expected := subtotal.Mul(decimal.NewFromInt(1).Add(rate.Div(decimal.NewFromInt(100))))
		assert.True(t, total.Equal(expected), "lines=%v rate=%s total=%s expected=%s", c.lines, c.rate, total, expected)
	}
}

func TestSplitProportionally(t *testing.T) {
	shares := SplitProportionally(d("10"), []decimal.Decimal{d("1"), d("1"), d("1")}, 2)
	require.Len(t, shares, 3)
	assert.True(t, shares[0].Equal(d("3.33")))
	assert.True(t, shares[1].Equal(d("3.33")))
	assert.True(t, shares[2].Equal(d("3.34")))

	shares = SplitProportionally(d("6"), []decimal.Decimal{d("2"), d("4")}, 2)
	assert.True(t, shares[0].Equal(d("2")))
	assert.True(t, shares[1].Equal(d("4")))

	shares = SplitProportionally(d("5"), []decimal.Decimal{d("0"), d("0")}, 2)
	assert.True(t, shares[0].Equal(d("5")))
	assert.True(t, shares[1].IsZero())
}

package money

import "github.com/shopspring/decimal"

// GSTRate is the flat tax rate applied to every order subtotal.
var GSTRate = decimal.NewFromFloat(0.18)

// LineTotal returns quantity times unit price in paise.
func LineTotal(unitPricePaise int64, quantity int) int64 {
	return unitPricePaise * int64(quantity)
}

// Tax computes the GST amount on a subtotal, rounded half up to the
// nearest paisa.
func Tax(subtotalPaise int64) int64 {
	return decimal.NewFromInt(subtotalPaise).
		Mul(GSTRate).
		Round(0).
		IntPart()
}

// Total returns subtotal plus tax.
func Total(subtotalPaise int64) int64 {
	return subtotalPaise + Tax(subtotalPaise)
}

// RupeesToPaise converts a decimal rupee amount into integer paise.
func RupeesToPaise(rupees decimal.Decimal) int64 {
	return rupees.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// PaiseToRupees renders paise as a decimal rupee amount.
func PaiseToRupees(paise int64) decimal.Decimal {
	return decimal.NewFromInt(paise).Div(decimal.NewFromInt(100))
}

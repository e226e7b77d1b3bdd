// Package money holds the rupiah arithmetic shared by the POS domain.
// Amounts are whole rupiah carried as int64; decimal is used only where
// rounding happens so tax never drifts with float math.
package money

import "github.com/shopspring/decimal"

// Tax returns the PPN for a subtotal at the given percent rate, rounded
// half-up to a whole rupiah.
func Tax(subtotal int64, ratePercent int) int64 {
	if subtotal <= 0 || ratePercent <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(ratePercent)).Div(decimal.NewFromInt(100))
	return decimal.NewFromInt(subtotal).Mul(rate).Round(0).IntPart()
}

// LineTotal multiplies quantity by unit price.
func LineTotal(qty int, unitPrice int64) int64 {
	if qty <= 0 {
		return 0
	}
	return int64(qty) * unitPrice
}

// Change returns the amount handed back to the customer, never negative.
func Change(tendered, total int64) int64 {
	if tendered <= total {
		return 0
	}
	return tendered - total
}

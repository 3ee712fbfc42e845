package service

import (
	"github.com/shopspring/decimal"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/model"
)

// Computation is the derived monetary state of a bill draft.
type Computation struct {
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Amount   decimal.Decimal
}

// ComputeTaxAndAmount derives tax and amount from the draft inputs:
//
//	tax    = round2((subtotal − discount) × (gst + hst + pst))
//	amount = round2((subtotal − discount) + tax)
//
// A discount greater than the subtotal is reset to zero, not capped at the
// subtotal. That reset is long-standing behavior the console's users rely on;
// changing it to a clamp must be a deliberate product decision (the tests pin
// it). Negative inputs are treated as zero.
func ComputeTaxAndAmount(subtotal, discount decimal.Decimal, rates model.TaxBreakdown) Computation {
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = decimal.Zero
	}

	base := subtotal.Sub(discount)
	tax := base.Mul(rates.Sum()).Round(2)
	amount := base.Add(tax).Round(2)

	return Computation{Discount: discount, Tax: tax, Amount: amount}
}

package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rates(gst, hst, pst string) model.TaxBreakdown {
	return model.TaxBreakdown{GST: dec(gst), HST: dec(hst), PST: dec(pst)}
}

func TestComputeTaxAndAmount(t *testing.T) {
	t.Run("derives tax and amount from discounted subtotal", func(t *testing.T) {
		// subtotal 1000, discount 100, gst 5% + hst 8%:
		// tax = (1000-100) * 0.13 = 117.00, amount = 900 + 117 = 1017.00
		c := ComputeTaxAndAmount(dec("1000"), dec("100"), rates("0.05", "0.08", "0"))

		assert.True(t, c.Tax.Equal(dec("117.00")), "tax = %s", c.Tax)
		assert.True(t, c.Amount.Equal(dec("1017.00")), "amount = %s", c.Amount)
		assert.True(t, c.Discount.Equal(dec("100")))
	})

	t.Run("rounds half away from zero to two decimals", func(t *testing.T) {
		// 100.005 * 0.05 = 5.00025 → 5.00; base 100.005 + 5.00 = 105.005 → 105.01
		c := ComputeTaxAndAmount(dec("100.005"), decimal.Zero, rates("0.05", "0", "0"))

		assert.True(t, c.Tax.Equal(dec("5.00")), "tax = %s", c.Tax)
		assert.True(t, c.Amount.Equal(dec("105.01")), "amount = %s", c.Amount)
	})

	t.Run("discount above subtotal resets to zero", func(t *testing.T) {
		// The reset (rather than a clamp to the subtotal) is deliberate and
		// observable: amount reverts to the full-subtotal figure.
		c := ComputeTaxAndAmount(dec("100"), dec("150"), rates("0.05", "0", "0"))

		assert.True(t, c.Discount.IsZero(), "discount = %s", c.Discount)
		assert.True(t, c.Tax.Equal(dec("5.00")), "tax = %s", c.Tax)
		assert.True(t, c.Amount.Equal(dec("105.00")), "amount = %s", c.Amount)
	})

	t.Run("discount equal to subtotal is kept", func(t *testing.T) {
		c := ComputeTaxAndAmount(dec("100"), dec("100"), rates("0.05", "0", "0"))

		assert.True(t, c.Discount.Equal(dec("100")))
		assert.True(t, c.Tax.IsZero())
		assert.True(t, c.Amount.IsZero())
	})

	t.Run("all rates zero yields zero tax", func(t *testing.T) {
		c := ComputeTaxAndAmount(dec("250"), dec("50"), rates("0", "0", "0"))

		assert.True(t, c.Tax.IsZero())
		assert.True(t, c.Amount.Equal(dec("200.00")), "amount = %s", c.Amount)
	})

	t.Run("negative inputs are treated as zero", func(t *testing.T) {
		c := ComputeTaxAndAmount(dec("-10"), dec("-5"), rates("0.05", "0", "0"))

		assert.True(t, c.Discount.IsZero())
		assert.True(t, c.Tax.IsZero())
		assert.True(t, c.Amount.IsZero())
	})

	t.Run("rates sum across gst hst and pst", func(t *testing.T) {
		c := ComputeTaxAndAmount(dec("200"), decimal.Zero, rates("0.05", "0.08", "0.07"))

		assert.True(t, c.Tax.Equal(dec("40.00")), "tax = %s", c.Tax)
		assert.True(t, c.Amount.Equal(dec("240.00")), "amount = %s", c.Amount)
	})
}

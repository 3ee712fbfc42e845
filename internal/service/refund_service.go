package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/dto"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/gateway"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/model"
)

const msgRefundFailed = "Failed to request refund."

// Quick-amount presets offered next to the refund input.
var quickPresets = map[string]decimal.Decimal{
	"full":    decimal.NewFromInt(1),
	"sixty":   decimal.RequireFromString("0.6"),
	"half":    decimal.RequireFromString("0.5"),
	"quarter": decimal.RequireFromString("0.25"),
}

type RefundService interface {
	QuickAmounts(subtotal decimal.Decimal) dto.QuickRefundResponse
	ComputeQuickAmount(subtotal decimal.Decimal, preset string) (decimal.Decimal, error)
	ClampAmount(subtotal, requested decimal.Decimal) decimal.Decimal
	Submit(ctx context.Context, billID int, req dto.RefundRequest) (*model.Bill, error)
}

type refundService struct {
	gw gateway.BillGateway
}

func NewRefundService(gw gateway.BillGateway) RefundService {
	return &refundService{gw: gw}
}

// ComputeQuickAmount returns subtotal × preset. Only the full preset is
// rounded to two decimals; the fractional presets keep the exact product.
func (s *refundService) ComputeQuickAmount(subtotal decimal.Decimal, preset string) (decimal.Decimal, error) {
	factor, ok := quickPresets[preset]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown refund preset %q", preset)
	}
	amount := subtotal.Mul(factor)
	if preset == "full" {
		amount = amount.Round(2)
	}
	return amount, nil
}

func (s *refundService) QuickAmounts(subtotal decimal.Decimal) dto.QuickRefundResponse {
	full, _ := s.ComputeQuickAmount(subtotal, "full")
	sixty, _ := s.ComputeQuickAmount(subtotal, "sixty")
	half, _ := s.ComputeQuickAmount(subtotal, "half")
	quarter, _ := s.ComputeQuickAmount(subtotal, "quarter")
	return dto.QuickRefundResponse{Full: full, Sixty: sixty, Half: half, Quarter: quarter}
}

// ClampAmount constrains the requested refund to [0, subtotal]. A negative
// request never reaches the billing service.
func (s *refundService) ClampAmount(subtotal, requested decimal.Decimal) decimal.Decimal {
	if requested.IsNegative() {
		return decimal.Zero
	}
	if requested.GreaterThan(subtotal) {
		return subtotal
	}
	return requested
}

// Submit validates the refund against the bill's current state and forwards
// it. The resulting status (PartiallyRefunded vs Refunded) is decided by the
// billing service; this backend only submits the request. An empty reason is
// accepted.
func (s *refundService) Submit(ctx context.Context, billID int, req dto.RefundRequest) (*model.Bill, error) {
	bill, err := s.gw.GetBill(ctx, billID)
	if err != nil {
		return nil, gatewayFailure(err, msgRefundFailed)
	}
	if !bill.Status.Refundable() {
		return nil, fmt.Errorf("bill cannot be refunded in status %s", bill.Status)
	}

	amount := s.ClampAmount(bill.Subtotal, req.Amount)
	if amount.IsZero() {
		return nil, errors.New("refund amount must be greater than zero")
	}

	refunded, err := s.gw.RefundBill(ctx, billID, amount, req.Reason)
	if err != nil {
		log.Error().Err(err).Int("bill_id", billID).Str("amount", amount.String()).
			Msg("refund_service: refund failed")
		return nil, gatewayFailure(err, msgRefundFailed)
	}
	return refunded, nil
}

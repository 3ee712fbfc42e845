package gateway

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/dto"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/infra"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/model"
)

// BreakerGateway routes every BillGateway call through a circuit breaker so
// a downed billing service fails fast instead of tying up request handlers
// for the full transport timeout.
type BreakerGateway struct {
	next BillGateway
	cb   *infra.CircuitBreaker
}

func WithBreaker(next BillGateway, cb *infra.CircuitBreaker) *BreakerGateway {
	return &BreakerGateway{next: next, cb: cb}
}

var _ BillGateway = (*BreakerGateway)(nil)

// run executes fn through the breaker. Remote 4xx responses are the user's
// problem, not an outage — they pass through without counting as breaker
// failures.
func (g *BreakerGateway) run(fn func() error) error {
	var opErr error
	err := g.cb.Execute(func() error {
		opErr = fn()
		if opErr == nil {
			return nil
		}
		var ge *Error
		if errors.As(opErr, &ge) && ge.StatusCode < 500 {
			return nil
		}
		return opErr
	})
	if errors.Is(err, infra.ErrCircuitOpen) {
		return err
	}
	return opErr
}

func (g *BreakerGateway) ListBills(ctx context.Context, filter dto.BillFilter) (*dto.BillListResponse, error) {
	var out *dto.BillListResponse
	err := g.run(func() error {
		var err error
		out, err = g.next.ListBills(ctx, filter)
		return err
	})
	return out, err
}

func (g *BreakerGateway) GetFilters(ctx context.Context) (*dto.FiltersResponse, error) {
	var out *dto.FiltersResponse
	err := g.run(func() error {
		var err error
		out, err = g.next.GetFilters(ctx)
		return err
	})
	return out, err
}

func (g *BreakerGateway) GetBill(ctx context.Context, id int) (*model.Bill, error) {
	var out *model.Bill
	err := g.run(func() error {
		var err error
		out, err = g.next.GetBill(ctx, id)
		return err
	})
	return out, err
}

func (g *BreakerGateway) CreateBill(ctx context.Context, payload dto.BillPayload) (*model.Bill, error) {
	var out *model.Bill
	err := g.run(func() error {
		var err error
		out, err = g.next.CreateBill(ctx, payload)
		return err
	})
	return out, err
}

func (g *BreakerGateway) UpdateBill(ctx context.Context, id int, payload dto.BillPayload) (*model.Bill, error) {
	var out *model.Bill
	err := g.run(func() error {
		var err error
		out, err = g.next.UpdateBill(ctx, id, payload)
		return err
	})
	return out, err
}

func (g *BreakerGateway) DeleteBill(ctx context.Context, id int) error {
	return g.run(func() error {
		return g.next.DeleteBill(ctx, id)
	})
}

func (g *BreakerGateway) RefundBill(ctx context.Context, id int, amount decimal.Decimal, reason string) (*model.Bill, error) {
	var out *model.Bill
	err := g.run(func() error {
		var err error
		out, err = g.next.RefundBill(ctx, id, amount, reason)
		return err
	})
	return out, err
}

func (g *BreakerGateway) SendBillEmail(ctx context.Context, id int) error {
	return g.run(func() error {
		return g.next.SendBillEmail(ctx, id)
	})
}

func (g *BreakerGateway) RenderBillPdf(ctx context.Context, id int) ([]byte, error) {
	var out []byte
	err := g.run(func() error {
		var err error
		out, err = g.next.RenderBillPdf(ctx, id)
		return err
	})
	return out, err
}

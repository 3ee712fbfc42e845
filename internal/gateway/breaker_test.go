package gateway

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/dto"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/infra"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/model"
)

// flakyGateway fails every call with a configurable error.
type flakyGateway struct {
	err   error
	calls int
}

func (g *flakyGateway) fail() error {
	g.calls++
	return g.err
}

func (g *flakyGateway) ListBills(context.Context, dto.BillFilter) (*dto.BillListResponse, error) {
	return nil, g.fail()
}
func (g *flakyGateway) GetFilters(context.Context) (*dto.FiltersResponse, error) {
	return nil, g.fail()
}
func (g *flakyGateway) GetBill(context.Context, int) (*model.Bill, error) { return nil, g.fail() }
func (g *flakyGateway) CreateBill(context.Context, dto.BillPayload) (*model.Bill, error) {
	return nil, g.fail()
}
func (g *flakyGateway) UpdateBill(context.Context, int, dto.BillPayload) (*model.Bill, error) {
	return nil, g.fail()
}
func (g *flakyGateway) DeleteBill(context.Context, int) error { return g.fail() }
func (g *flakyGateway) RefundBill(context.Context, int, decimal.Decimal, string) (*model.Bill, error) {
	return nil, g.fail()
}
func (g *flakyGateway) SendBillEmail(context.Context, int) error           { return g.fail() }
func (g *flakyGateway) RenderBillPdf(context.Context, int) ([]byte, error) { return nil, g.fail() }

var _ BillGateway = (*flakyGateway)(nil)

func TestBreakerTripsOnServerErrors(t *testing.T) {
	inner := &flakyGateway{err: &Error{StatusCode: 500}}
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 3})
	gw := WithBreaker(inner, cb)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := gw.GetBill(ctx, 1)
		require.Error(t, err)
	}
	assert.Equal(t, infra.CBOpen, cb.State())

	// Open breaker fails fast without touching the inner gateway.
	calls := inner.calls
	_, err := gw.GetBill(ctx, 1)
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.Equal(t, calls, inner.calls)
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	inner := &flakyGateway{err: &Error{StatusCode: 404, Detail: "Bill not found"}}
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 3})
	gw := WithBreaker(inner, cb)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := gw.GetBill(ctx, 1)
		// The caller still sees the remote error.
		var ge *Error
		require.ErrorAs(t, err, &ge)
		assert.Equal(t, 404, ge.StatusCode)
	}
	assert.Equal(t, infra.CBClosed, cb.State())
	assert.Equal(t, 10, inner.calls)
}

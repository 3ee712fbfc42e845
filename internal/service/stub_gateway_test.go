package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/dto"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/gateway"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/model"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/repository"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubGateway is an in-memory BillGateway that records every call for
// assertion. createErr lets a test fail specific creation calls by index.
type stubGateway struct {
	bills map[int]*model.Bill

	created   []dto.BillPayload
	updated   []dto.BillPayload
	deleted   []int
	refunds   []stubRefund
	emailed   []int
	rendered  []int
	createErr func(call int) error
}

type stubRefund struct {
	BillID int
	Amount decimal.Decimal
	Reason string
}

func newStubGateway(bills ...*model.Bill) *stubGateway {
	g := &stubGateway{bills: make(map[int]*model.Bill)}
	for _, b := range bills {
		g.bills[b.ID] = b
	}
	return g
}

func (g *stubGateway) ListBills(_ context.Context, _ dto.BillFilter) (*dto.BillListResponse, error) {
	resp := &dto.BillListResponse{Data: []model.Bill{}, Meta: dto.PageMeta{CurrentPage: 1, LastPage: 1}}
	for _, b := range g.bills {
		resp.Data = append(resp.Data, *b)
	}
	resp.Meta.Total = int64(len(resp.Data))
	return resp, nil
}

func (g *stubGateway) GetFilters(_ context.Context) (*dto.FiltersResponse, error) {
	return &dto.FiltersResponse{
		Status: map[string]string{"0": "Unpaid", "1": "Paid"},
		Type:   map[string]string{"1": "Deposit", "2": "Subscription", "3": "Ticket"},
	}, nil
}

func (g *stubGateway) GetBill(_ context.Context, id int) (*model.Bill, error) {
	b, ok := g.bills[id]
	if !ok {
		return nil, &gateway.Error{StatusCode: 404, Detail: "Bill not found"}
	}
	return b, nil
}

func (g *stubGateway) CreateBill(_ context.Context, payload dto.BillPayload) (*model.Bill, error) {
	call := len(g.created)
	g.created = append(g.created, payload)
	if g.createErr != nil {
		if err := g.createErr(call); err != nil {
			return nil, err
		}
	}
	bill := &model.Bill{
		ID:         len(g.bills) + 1,
		CustomerID: payload.CustomerID,
		Currency:   payload.Currency,
		Type:       model.BillType(payload.Type),
		Status:     model.BillStatus(payload.Status),
		Subtotal:   payload.Subtotal,
		Discount:   payload.Discount,
		Tax:        payload.Tax,
		Amount:     payload.Amount,
		Describe:   payload.Describe,
	}
	g.bills[bill.ID] = bill
	return bill, nil
}

func (g *stubGateway) UpdateBill(_ context.Context, id int, payload dto.BillPayload) (*model.Bill, error) {
	g.updated = append(g.updated, payload)
	b, ok := g.bills[id]
	if !ok {
		return nil, &gateway.Error{StatusCode: 404, Detail: "Bill not found"}
	}
	b.Currency = payload.Currency
	b.Type = model.BillType(payload.Type)
	b.Subtotal = payload.Subtotal
	b.Discount = payload.Discount
	b.Tax = payload.Tax
	b.Amount = payload.Amount
	b.Describe = payload.Describe
	return b, nil
}

func (g *stubGateway) DeleteBill(_ context.Context, id int) error {
	if _, ok := g.bills[id]; !ok {
		return &gateway.Error{StatusCode: 404, Detail: "Bill not found"}
	}
	g.deleted = append(g.deleted, id)
	delete(g.bills, id)
	return nil
}

func (g *stubGateway) RefundBill(_ context.Context, id int, amount decimal.Decimal, reason string) (*model.Bill, error) {
	b, ok := g.bills[id]
	if !ok {
		return nil, &gateway.Error{StatusCode: 404, Detail: "Bill not found"}
	}
	g.refunds = append(g.refunds, stubRefund{BillID: id, Amount: amount, Reason: reason})
	if amount.Equal(b.Subtotal) {
		b.Status = model.BillStatusRefunded
	} else {
		b.Status = model.BillStatusPartiallyRefunded
	}
	return b, nil
}

func (g *stubGateway) SendBillEmail(_ context.Context, id int) error {
	if _, ok := g.bills[id]; !ok {
		return &gateway.Error{StatusCode: 404, Detail: "Bill not found"}
	}
	g.emailed = append(g.emailed, id)
	return nil
}

func (g *stubGateway) RenderBillPdf(_ context.Context, id int) ([]byte, error) {
	if _, ok := g.bills[id]; !ok {
		return nil, &gateway.Error{StatusCode: 404, Detail: "Bill not found"}
	}
	g.rendered = append(g.rendered, id)
	return []byte("%PDF-1.4"), nil
}

var _ gateway.BillGateway = (*stubGateway)(nil)

// stubRunRepo records import runs in memory.
type stubRunRepo struct {
	runs []*model.ImportRun
	err  error
}

func (r *stubRunRepo) Create(_ context.Context, run *model.ImportRun) error {
	if r.err != nil {
		return r.err
	}
	r.runs = append(r.runs, run)
	return nil
}

func (r *stubRunRepo) List(_ context.Context, limit int) ([]model.ImportRun, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]model.ImportRun, 0, len(r.runs))
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.runs[i])
	}
	return out, nil
}

var _ repository.ImportRunRepository = (*stubRunRepo)(nil)

var errStubDown = errors.New("stub dependency down")
